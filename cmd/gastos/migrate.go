package main

import (
	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/log"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the data files",
		Long: `Creates the data directory and files when missing and upgrades legacy
CSV files (or applies the SQLite schema migrations). Every other command does
this implicitly; migrate only does it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cli.OpenApp(cmd.Context(), appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Backend.Store.Ensure(cmd.Context()); err != nil {
				return err
			}
			logger.Info("Storage ready", "backend", appConfig.DataBackend, log.FieldOperation, log.OpMigrate)
			return nil
		},
	}
}
