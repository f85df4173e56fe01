package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gastos/internal/cli"
	apphttp "gastos/internal/http"
	"gastos/internal/log"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := cli.OpenApp(ctx, appConfig, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("Backend cleanup failed", log.FieldError, err)
				}
			}()

			srv, err := apphttp.NewServer(apphttp.Options{
				Addr:               appConfig.Addr(),
				RateLimitPerMinute: appConfig.RateLimitPerMinute,
				Logger:             logger,
			}, app.Expenses, app.Categories)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			srv.ReadTimeout = 10 * time.Second
			srv.WriteTimeout = 10 * time.Second
			srv.IdleTimeout = 60 * time.Second
			srv.MaxHeaderBytes = 1 << 16

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Starting gastos server",
					"addr", srv.Addr,
					"backend", appConfig.DataBackend,
					"amqp", appConfig.AMQPEnabled())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen on %s: %w", srv.Addr, err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown: %w", err)
				}
				logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
				return nil
			})
			return g.Wait()
		},
	}
}
