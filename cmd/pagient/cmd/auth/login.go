package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the pagient server",
	Long: `Authenticate against the pagient server.

The token is stored locally, so subsequent commands and a restarted client
resume the session.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteLogin); decision == client.RedirectToLogout {
			fmt.Println("Already logged in. Run 'pagient auth logout' first.")
			return nil
		}

		fmt.Print("Username: ")
		var username string
		_, _ = fmt.Scanln(&username)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		_, err = app.Session().Login(ctx, client.Credentials{
			Username: username,
			Password: string(password),
		})
		if err != nil {
			if errors.Is(err, client.ErrAuthRejected) {
				return fmt.Errorf("username or password incorrect")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println("Logged in.")

		if expiry := app.Session().TokenExpiry(); !expiry.IsZero() {
			fmt.Printf("Session valid until %s.\n", expiry.Local().Format(time.RFC1123))
		}

		return nil
	},
}
