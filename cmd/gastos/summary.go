package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/core"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := cli.OpenApp(cmd.Context(), appConfig, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.Expenses.Summary(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Categoria\tTotal\t")
			for _, c := range summary.ByCategory {
				fmt.Fprintf(w, "%s\t%s\t\n", c.Name, core.FormatAmount(c.Total))
			}
			fmt.Fprintf(w, "Total geral\t%s\t\n", core.FormatAmount(summary.Total))
			return w.Flush()
		},
	}
}
