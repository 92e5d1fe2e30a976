package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-sync invoice records with FreshBooks",
	Long: `Checks every linked invoice in FreshBooks. Deleted invoices release
their Tick entries back to unbilled; finalized invoices drop their local
records. Listing commands run this automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		services, err := appInstance.Connect(ctx)
		if err != nil {
			return err
		}

		if err := services.ReconcileService.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile failed: %w", err)
		}

		fmt.Println("Reconcile complete")
		return nil
	},
}
