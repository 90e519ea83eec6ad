package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/httpapi"
	"fixflow/internal/usecase/feedback"
	"fixflow/internal/usecase/incident"
	"fixflow/internal/usecase/job"
	"fixflow/internal/usecase/matcher"
	"fixflow/internal/usecase/trust"
)

// services bundles the lifecycle services handed to command bodies.
type services struct {
	Incidents *incident.Service
	Jobs      *job.Service
	Feedback  *feedback.Service
	Trust     *trust.Service
	Matcher   *matcher.Service
	HTTP      *httpapi.Server
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svcs services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		var svcs services
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(
				&app,
				&svcs.Incidents,
				&svcs.Jobs,
				&svcs.Feedback,
				&svcs.Trust,
				&svcs.Matcher,
				&svcs.HTTP,
			),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, svcs); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
