package patient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
)

var clearPager bool

var AssignCmd = &cobra.Command{
	Use:   "assign <patient-id> [pager-id]",
	Short: "Assign a pager to a patient, or take it away",
	Long: `Assign the given pager to the patient. With --clear (or pager-id 0)
the pager is taken away; a patient left inactive without a pager is removed
from the board.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteRoot); decision == client.RedirectToLogin {
			return fmt.Errorf("login required: run 'pagient auth login'")
		}

		patientID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid patient id %q", args[0])
		}

		var pagerID uint64
		if !clearPager {
			if len(args) < 2 {
				return fmt.Errorf("pager id required unless --clear is given")
			}
			pagerID, err = strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pager id %q", args[1])
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Bootstrap(ctx); err != nil {
			return err
		}

		p := app.Store().Patient(uint(patientID))
		if p == nil {
			return fmt.Errorf("patient %d not found", patientID)
		}

		err = app.Actions().AssignPager(ctx, p, uint(pagerID))
		if errors.Is(err, client.ErrPartialChain) {
			return fmt.Errorf("pager updated, but removing the finished patient failed; correct it on the server: %w", err)
		}
		if err != nil {
			return err
		}

		if pagerID == 0 {
			fmt.Printf("Pager taken from %s.\n", p.Name)
		} else {
			fmt.Printf("Pager %d assigned to %s.\n", pagerID, p.Name)
		}
		return nil
	},
}

func init() {
	AssignCmd.Flags().BoolVar(&clearPager, "clear", false, "take the pager away instead of assigning one")
}
