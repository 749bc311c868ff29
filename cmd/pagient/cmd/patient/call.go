package patient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
)

var CallCmd = &cobra.Command{
	Use:   "call <patient-id>",
	Short: "Page a patient",
	Long: `Submit a call for the patient's pager. The call is optimistic: the
board reflects it once the server confirms it through the live channel.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteRoot); decision == client.RedirectToLogin {
			return fmt.Errorf("login required: run 'pagient auth login'")
		}

		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid patient id %q", args[0])
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Bootstrap(ctx); err != nil {
			return err
		}

		p := app.Store().Patient(uint(id))
		if p == nil {
			return fmt.Errorf("patient %d not found", id)
		}
		if p.PagerID == 0 {
			return fmt.Errorf("patient %d has no pager assigned", id)
		}

		if err := app.Actions().CallPatient(ctx, p); err != nil {
			return err
		}

		fmt.Printf("Calling %s on pager %d.\n", p.Name, p.PagerID)
		return nil
	},
}
