package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"fixflow/internal/bootstrap/config"
	"fixflow/internal/bootstrap/database"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/httpapi"
	cacheinfra "fixflow/internal/infrastructure/cache"
	sqliterepo "fixflow/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "fixflow/internal/infrastructure/persistence/sqlite/uow"
	"fixflow/internal/infrastructure/ranking"
	"fixflow/internal/ports"
	"fixflow/internal/usecase/feedback"
	"fixflow/internal/usecase/incident"
	"fixflow/internal/usecase/job"
	"fixflow/internal/usecase/matcher"
	"fixflow/internal/usecase/trust"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewIncidentRepository,
			fx.As(new(ports.IncidentStore)),
			fx.As(new(ports.IncidentReadStore)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewJobRepository,
			fx.As(new(ports.JobStore)),
			fx.As(new(ports.JobReadStore)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewFeedbackRepository,
			fx.As(new(ports.FeedbackStore)),
			fx.As(new(ports.FeedbackReadStore)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideRanker),
	fx.Provide(matcher.NewService),
	fx.Provide(func(m *matcher.Service) job.Suggester { return m }),
	fx.Provide(incident.NewService),
	fx.Provide(job.NewService),
	fx.Provide(feedback.NewService),
	fx.Provide(trust.NewService),
	fx.Provide(httpapi.NewServer),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

// provideRanker binds the advisory strategy only when configured; a nil
// ranker means the matcher runs on deterministic scorecard ranking alone.
func provideRanker(cfg config.Config) ports.Ranker {
	if cfg.Ranking.Mode != config.RankingModeAdvisory {
		return nil
	}
	return ranking.NewAdvisoryRanker(
		cfg.Ranking.BaseURL,
		cfg.Ranking.APIKey,
		cfg.Ranking.Model,
		cfg.Ranking.Timeout(),
	)
}
