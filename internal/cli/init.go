// Package cli holds the start-up steps shared by the gastos commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gastos/internal/backend"
	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadConfig reads and validates the configuration.
func LoadConfig(v *viper.Viper, configFile string) (*config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// App bundles what a command needs to work on the data.
type App struct {
	Backend    *backend.BackendResult
	Expenses   *services.ExpenseService
	Categories *services.CategoryService
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Backend.Cleanup()
}

// OpenApp creates the configured backend and the services on top of it.
func OpenApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}

	categories := services.NewCategoryService(res.Store, res.Publisher, logger)
	return &App{
		Backend:    res,
		Categories: categories,
		Expenses:   services.NewExpenseService(res.Store, categories, res.Publisher, logger),
	}, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The signal
// is logged through the default logger, which SetupLogger may replace later.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.FromContext(ctx).Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
