package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mend/tickbridge/internal/remote"
	"github.com/mend/tickbridge/internal/service"
	"github.com/spf13/cobra"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [project-id]",
	Short: "Create a FreshBooks draft invoice from a project's unbilled time",
	Long: `Collects the project's unbilled Tick entries, matches the client and
project against FreshBooks, and creates a draft invoice. Entries that
made it onto the invoice are marked billed in Tick.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		projectID := args[0]

		detailed, _ := cmd.Flags().GetBool("detailed")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		services, err := appInstance.Connect(ctx)
		if err != nil {
			return err
		}
		if !services.Settings.HasFreshBooks() {
			return fmt.Errorf("FreshBooks is not configured: run 'tickbridge settings set-freshbooks' first")
		}

		// Find the project among the open groups so we have its client
		// and project names for FreshBooks matching
		groups, err := services.EntryService.ListOpenProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list open projects: %w", err)
		}
		var clientName, projectName string
		found := false
		for _, g := range groups {
			if g.ProjectID == projectID {
				clientName = g.Client
				projectName = g.Project
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("project %s has no unbilled time (see 'tickbridge projects')", projectID)
		}

		invoiceType := service.InvoiceTypeSummary
		if detailed {
			invoiceType = service.InvoiceTypeDetailed
		}

		result, err := services.InvoiceService.CreateInvoice(ctx, service.CreateInvoiceRequest{
			ClientName:  clientName,
			ProjectName: projectName,
			ProjectID:   projectID,
			StartDate:   start,
			EndDate:     end,
			Type:        invoiceType,
		})
		if err != nil {
			if errors.Is(err, service.ErrNoOpenEntries) {
				fmt.Println("No unbilled entries in the selected range")
				return nil
			}
			if remote.IsAuth(err) {
				return fmt.Errorf("FreshBooks rejected the API token: update it with 'tickbridge settings set-freshbooks'")
			}
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		if !result.Matched {
			fmt.Printf("No FreshBooks client named %q with a project named %q was found.\n", clientName, projectName)
			fmt.Println("Create them in FreshBooks (names must match Tick) and try again.")
			return nil
		}

		fmt.Printf("Created draft invoice for %s / %s\n", clientName, projectName)
		fmt.Printf("  Entries billed: %d (%.2f hours)\n", result.EntryCount, result.TotalHours)
		if result.Invoice != nil && result.Invoice.AuthURL != "" {
			fmt.Printf("  View it at: %s\n", result.Invoice.AuthURL)
		}
		return nil
	},
}

func init() {
	invoiceCmd.Flags().Bool("detailed", false, "One line per time entry instead of a single summary line")
	invoiceCmd.Flags().String("start", "", "Start date (m/d/Y)")
	invoiceCmd.Flags().String("end", "", "End date (m/d/Y)")
}
