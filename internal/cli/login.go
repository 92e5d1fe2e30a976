package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/mend/tickbridge/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Tick and save your credentials",
	Long: `Prompts for your Tick subdomain, email, and password, verifies them
against the Tick API, and stores them in the encrypted local database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Tick subdomain (e.g. acme for acme.tickspot.com): ")
		subdomain, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read subdomain: %w", err)
		}

		fmt.Print("Email: ")
		email, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		// Keep any FreshBooks settings already configured
		settings, err := appInstance.SettingsRepo.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		if settings == nil {
			settings = &domain.Settings{}
		}
		settings.TickURL = normalizeTickURL(subdomain)
		settings.TickEmail = strings.TrimSpace(email)
		settings.TickPassword = string(password)

		services, err := appInstance.ConnectWith(settings)
		if err != nil {
			return err
		}

		if !services.Tick.Login(ctx) {
			return fmt.Errorf("login failed: check your subdomain, email, and password")
		}

		if err := appInstance.SettingsRepo.Save(ctx, settings); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		fmt.Printf("Logged in to %s as %s\n", settings.TickURL, settings.TickEmail)
		if !settings.HasFreshBooks() {
			fmt.Println("Next: configure invoicing with 'tickbridge settings set-freshbooks'")
		}
		return nil
	},
}

// normalizeTickURL turns a bare subdomain into the full Tick API base URL.
// Full URLs and bare hostnames pass through with an https scheme.
func normalizeTickURL(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return s
	}
	if strings.Contains(s, "://") {
		return s
	}
	if strings.Contains(s, ".") {
		return "https://" + s
	}
	return "https://" + s + ".tickspot.com"
}
