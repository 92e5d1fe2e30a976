package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with unbilled time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		services, err := appInstance.Connect(ctx)
		if err != nil {
			return err
		}

		groups, err := services.EntryService.ListOpenProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list open projects: %w", err)
		}

		if len(groups) == 0 {
			fmt.Println("No projects with unbilled time")
			return nil
		}

		fmt.Printf("%-10s %-30s %-30s\n", "ID", "Project", "Client")
		fmt.Println("------------------------------------------------------------------------")
		for _, g := range groups {
			fmt.Printf("%-10s %-30s %-30s\n",
				g.ProjectID,
				truncate(g.Project, 30),
				truncate(g.Client, 30),
			)
		}

		fmt.Printf("\nTotal: %d project(s)\n", len(groups))
		return nil
	},
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
