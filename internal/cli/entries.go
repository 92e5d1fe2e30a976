package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries [project-id]",
	Short: "List unbilled entries for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		projectID := args[0]

		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")

		services, err := appInstance.Connect(ctx)
		if err != nil {
			return err
		}

		entries, totalHours, err := services.EntryService.ListOpenEntries(ctx, projectID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No unbilled entries found")
			return nil
		}

		fmt.Printf("%-12s %-25s %-8s %-40s\n", "Date", "Task", "Hours", "Notes")
		fmt.Println("----------------------------------------------------------------------------------------")
		for _, e := range entries {
			fmt.Printf("%-12s %-25s %-8.2f %-40s\n",
				e.Date,
				truncate(e.TaskName, 25),
				e.Hours,
				truncate(e.Notes, 40),
			)
		}

		fmt.Printf("\nTotal: %d entry(ies), %.2f hours\n", len(entries), totalHours)
		return nil
	},
}

func init() {
	entriesCmd.Flags().String("start", "", "Start date (m/d/Y)")
	entriesCmd.Flags().String("end", "", "End date (m/d/Y)")
}
