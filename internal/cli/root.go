package cli

import (
	"github.com/mend/tickbridge/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "tickbridge",
	Short: "Bridge Tick time entries into FreshBooks invoices",
	Long: `Tickbridge turns open Tick time entries into FreshBooks draft invoices.

Log in once with 'tickbridge login', point it at your FreshBooks account
with 'tickbridge settings', then list open projects and invoice them.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(reconcileCmd)
}
