package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and update saved settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		settings, err := appInstance.SettingsRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if settings == nil {
			fmt.Println("No settings saved yet: run 'tickbridge login' first")
			return nil
		}

		fmt.Printf("Tick URL:         %s\n", settings.TickURL)
		fmt.Printf("Tick email:       %s\n", settings.TickEmail)
		fmt.Printf("Tick password:    %s\n", mask(settings.TickPassword))
		fmt.Printf("FreshBooks URL:   %s\n", settings.FreshBooksURL)
		fmt.Printf("FreshBooks token: %s\n", mask(settings.FreshBooksToken))
		return nil
	},
}

var settingsFreshBooksCmd = &cobra.Command{
	Use:   "set-freshbooks",
	Short: "Configure the FreshBooks API endpoint and token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		apiURL, _ := cmd.Flags().GetString("url")
		token, _ := cmd.Flags().GetString("token")
		if strings.TrimSpace(apiURL) == "" || strings.TrimSpace(token) == "" {
			return fmt.Errorf("both --url and --token are required")
		}

		settings, err := appInstance.SettingsRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if settings == nil {
			return fmt.Errorf("no saved credentials: run 'tickbridge login' first")
		}

		settings.FreshBooksURL = strings.TrimSuffix(strings.TrimSpace(apiURL), "/")
		settings.FreshBooksToken = strings.TrimSpace(token)

		if err := appInstance.SettingsRepo.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		fmt.Printf("FreshBooks configured: %s\n", settings.FreshBooksURL)
		return nil
	},
}

// mask hides a secret, keeping just enough to recognize it
func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func init() {
	settingsFreshBooksCmd.Flags().String("url", "", "FreshBooks API URL (e.g. https://acme.freshbooks.com/api/2.1/xml-in)")
	settingsFreshBooksCmd.Flags().String("token", "", "FreshBooks API token")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsFreshBooksCmd)
}
