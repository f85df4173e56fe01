package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/log"
	"gastos/internal/sheets"
	"gastos/internal/sheets/google"
	"gastos/internal/sheets/memory"
)

func exportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Mirror categories and expenses into Google Sheets",
		Long: `Rewrites the "Categorias" and "Lançamentos" tabs of the spreadsheet
named by GOOGLE_SPREADSHEET_ID. With --dry-run nothing leaves the machine and
only the row counts are printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var writer sheets.TableWriter
			if dryRun {
				writer = memory.New()
			} else {
				if err := appConfig.ValidateExport(); err != nil {
					return err
				}
				client, err := google.New(ctx, google.Config{
					SpreadsheetID:      appConfig.GoogleSpreadsheetID,
					ServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
					ServiceAccountFile: appConfig.GoogleServiceAccountFile,
				}, logger)
				if err != nil {
					return err
				}
				writer = client
			}

			app, err := cli.OpenApp(ctx, appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			categories, err := app.Categories.List(ctx)
			if err != nil {
				return err
			}
			views, err := app.Expenses.List(ctx)
			if err != nil {
				return err
			}

			res, err := sheets.Export(ctx, writer, categories, views)
			if err != nil {
				return err
			}
			logger.Info("Export finished",
				log.FieldOperation, log.OpExport,
				"categories", res.Categories,
				"expenses", res.Expenses,
				"dry_run", dryRun)
			fmt.Fprintf(cmd.OutOrStdout(), "%d categorias, %d lançamentos exportados\n", res.Categories, res.Expenses)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the sheets in memory without contacting Google")
	return cmd
}
