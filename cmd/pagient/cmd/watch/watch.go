package watch

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pagient/cmd/pagient/cmd/types"
	"pagient/internal/app/client"
	"pagient/internal/domain/entity"
)

var (
	headerColor = color.New(color.FgWhite, color.Bold)
	activeColor = color.New(color.FgGreen)
	callColor   = color.New(color.FgCyan)
	warnColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the paging board live",
	Long: `Connect to the pagient server, load the current board and keep it
up to date from the server's push events until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _ := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("application not initialized")
		}
		defer app.Close()

		if decision, _ := app.Navigate(client.RouteRoot); decision == client.RedirectToLogin {
			return fmt.Errorf("login required: run 'pagient auth login'")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app.Store().Subscribe(func() {
			render(app.Store())
		})
		app.Stream().OnError(func(err error) {
			errColor.Printf("! %v\n", err)
		})

		err := app.Run(ctx)
		if errors.Is(err, client.ErrAuthExpired) {
			return fmt.Errorf("session expired: run 'pagient auth login'")
		}
		return err
	},
}

func render(store *client.Store) {
	fmt.Println()
	headerColor.Println("Clients")
	for _, view := range store.Clients() {
		marker := "  "
		if view.ID == store.ActiveClientID() {
			marker = activeColor.Sprint("> ")
		}
		if view.Patient != nil {
			fmt.Printf("%s%-20s %s\n", marker, view.Name, describePatient(view.Patient))
		} else {
			fmt.Printf("%s%-20s -\n", marker, view.Name)
		}
	}

	headerColor.Println("Pagers")
	for _, view := range store.Pagers() {
		if view.Patient != nil {
			fmt.Printf("  %-20s %s\n", view.Name, describePatient(view.Patient))
		} else {
			fmt.Printf("  %-20s free\n", view.Name)
		}
	}
}

func describePatient(patient *entity.Patient) string {
	switch patient.Status {
	case entity.StatusCall, entity.StatusCalled:
		return callColor.Sprintf("%s (%s)", patient.Name, patient.Status)
	case entity.StatusPending:
		return warnColor.Sprintf("%s (%s)", patient.Name, patient.Status)
	default:
		return fmt.Sprintf("%s (%s)", patient.Name, patient.Status)
	}
}
