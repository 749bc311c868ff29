package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"pagient/cmd/pagient/cmd/auth"
	"pagient/cmd/pagient/cmd/patient"
	"pagient/cmd/pagient/cmd/types"
	"pagient/cmd/pagient/cmd/watch"
	"pagient/internal/app/client"
	"pagient/internal/app/client/config"
	"pagient/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	debug     bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "pagient",
	Short: "Pagient - terminal client for the patient paging board",
	Long: `Pagient is a terminal client for the pagient patient-paging system.

It keeps a live picture of clients, pagers and patients by merging a
snapshot fetch with the server's push events, and lets staff call patients
and assign pagers from the command line.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if debug {
		cfg.Env = logger.EnvLocal
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "address of the pagient server")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(watch.WatchCmd)
	rootCmd.AddCommand(patient.PatientCmd)
}
