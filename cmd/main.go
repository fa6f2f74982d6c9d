package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/taskboard/internal/app"
	"github.com/adanyl0v/taskboard/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Task and event dashboard with notifications and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(remindCmd())
	rootCmd.AddCommand(snoozeCmd())
	rootCmd.AddCommand(ackCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrapServer reads the server env and configures logging.
func bootstrapServer() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	cfg := config.Global()
	app.MustInitApplicationLogger(cfg.Env, cfg.Log)
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapServer()

			app.MustConnectStore()
			defer app.DisconnectStore()

			if migrate {
				app.MustMigrate()
			}

			app.MustListenAndServeHTTP()
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the storage schema before serving")

	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables or indexes of the configured storage driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapServer()

			app.MustConnectStore()
			defer app.DisconnectStore()

			app.MustMigrate()
			return nil
		},
	}
}
