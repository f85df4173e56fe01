package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gastos/internal/cli"
	"gastos/internal/config"
	"gastos/internal/log"
)

var (
	cfgFile string
	version = "dev"

	v         = config.NewViper()
	appConfig *config.Config
	logger    = log.Discard()

	rootCmd = &cobra.Command{
		Use:   "gastos",
		Short: "Controle de gastos pessoais",
		Long: `gastos records expenses and categories in CSV files (or SQLite)
and serves a small web interface to manage them.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gastos.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")

	_ = v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = cli.SetupLogger(cfg)
	return nil
}
