package app

import (
	"context"
	"fmt"
	"io"

	applicantservice "github.com/catalytics/catalytics-cron/app/modules/applicant/application"
	badgesyncservice "github.com/catalytics/catalytics-cron/app/modules/badgesync/application"
	badgeclient "github.com/catalytics/catalytics-cron/app/modules/badgesync/infrastructure/client"
	jobservice "github.com/catalytics/catalytics-cron/app/modules/job/application"
	jobqueue "github.com/catalytics/catalytics-cron/app/modules/job/infrastructure/queue"
	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/handlers"
	"github.com/catalytics/catalytics-cron/config"
	"github.com/catalytics/catalytics-cron/db/bundb"
	"github.com/catalytics/catalytics-cron/internal/observability"
)

// App holds the wired services of the job.
type App struct {
	Config        *config.Config
	Observability observability.Observability

	db *bundb.DBService

	ApplicantService   applicantservice.Service
	BadgeSyncService   badgesyncservice.Service
	LeaderboardService leaderboardservice.Service
	Runner             *jobservice.Runner

	LeaderboardHandlers *leaderboardhandlers.Handlers

	// Queue is set by StartScheduler.
	Queue jobqueue.QueueService
}

// NewApp wires every module from cfg. The database connects lazily.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app.NewApp: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := obs.Logger
	dbService := bundb.NewBunDBService(ctx, cfg.Postgres, logger)

	applicants := applicantservice.NewApplicantService(
		dbService.ApplicantDB,
		logger.With("module", "applicant"),
		obs.Metrics,
		obs.Tracer,
	)

	client := badgeclient.NewClient(cfg.BadgeAPI.BaseURL, badgeclient.WithTimeout(cfg.Sync.Timeout))
	badgeSync := badgesyncservice.NewBadgeSyncService(
		client,
		badgesyncservice.NewPacer(cfg.Sync),
		logger.With("module", "badgesync"),
		obs.Metrics,
		obs.Tracer,
	)

	leaderboard := leaderboardservice.NewLeaderboardService(
		dbService.LeaderboardDB,
		dbService.ApplicantDB,
		logger.With("module", "leaderboard"),
		obs.Metrics,
		obs.Tracer,
		dbService.GetDB(),
	)

	logger.InfoContext(ctx, "Application wired",
		"badge_api", cfg.BadgeAPI.BaseURL,
		"sync_delay", cfg.Sync.Delay,
		"sync_max_rps", cfg.Sync.MaxRPS,
	)

	return &App{
		Config:              cfg,
		Observability:       obs,
		db:                  dbService,
		ApplicantService:    applicants,
		BadgeSyncService:    badgeSync,
		LeaderboardService:  leaderboard,
		Runner:              jobservice.NewRunner(applicants, badgeSync, leaderboard, logger.With("module", "job"), obs.Tracer),
		LeaderboardHandlers: leaderboardhandlers.NewHandlers(leaderboard, logger.With("module", "api")),
	}, nil
}

// DB returns the database service.
func (app *App) DB() *bundb.DBService {
	return app.db
}

// RunOnce executes a single job pass and prints its summary to out.
func (app *App) RunOnce(ctx context.Context, out io.Writer) jobservice.Report {
	report := app.Runner.Run(ctx)
	if err := report.WriteSummary(out); err != nil {
		app.Observability.Logger.ErrorContext(ctx, "Failed to write job summary", "error", err)
	}
	return report
}

// StartScheduler starts River with the periodic badge sync job.
func (app *App) StartScheduler(ctx context.Context) error {
	queue, err := jobqueue.NewService(
		ctx,
		app.db.GetDB(),
		app.Observability.Logger.With("module", "queue"),
		app.Config.Postgres.DSN,
		app.Config.Schedule,
		app.Runner,
		app.Observability.Metrics,
	)
	if err != nil {
		return fmt.Errorf("failed to create job queue: %w", err)
	}
	if err := queue.Start(ctx); err != nil {
		return err
	}
	app.Queue = queue
	return nil
}
