package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteLogout); decision == client.RedirectToLogin {
			fmt.Println("Not logged in.")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		// Local state is cleared even when the server call fails; the error
		// is only reported.
		if err := app.Session().Logout(ctx); err != nil {
			fmt.Printf("Warning: server-side logout failed: %v\n", err)
		}

		fmt.Println("Logged out.")
		return nil
	},
}
