package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current patient list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteRoot); decision == client.RedirectToLogin {
			return fmt.Errorf("login required: run 'pagient auth login'")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Bootstrap(ctx); err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Printf("%-6s %-20s %-10s %-8s %s\n", "ID", "NAME", "STATUS", "ACTIVE", "PAGER")
		for _, p := range app.Store().Patients() {
			pager := "-"
			if p.PagerID != 0 {
				pager = fmt.Sprintf("%d", p.PagerID)
			}
			fmt.Printf("%-6d %-20s %-10s %-8t %s\n", p.ID, p.Name, p.Status, p.Active, pager)
		}

		return nil
	},
}
