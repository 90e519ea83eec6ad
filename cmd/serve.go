package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lifecycle engine HTTP API",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		srv := &http.Server{
			Addr:              app.Config.Server.Addr,
			Handler:           svcs.HTTP.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", srv.Addr))
			serveErr <- srv.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error(ctx, "http server failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "serve http")
			}
		case <-runCtx.Done():
			logging.Info(ctx, "shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Error(ctx, "http server shutdown failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "shutdown http server")
			}
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "server stopped: addr=%s\n", app.Config.Server.Addr); err != nil {
			return errs.Wrap(err, "write serve output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
