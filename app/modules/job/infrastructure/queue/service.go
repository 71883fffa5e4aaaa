package jobqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/catalytics/catalytics-cron/config"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const component = "river"

// QueueService runs the badge sync job on a schedule.
type QueueService interface {
	// Enqueue inserts a run to be picked up immediately.
	Enqueue(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Service handles the periodic badge sync job using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.Metrics
}

// NewService creates a River client with the periodic badge sync job registered.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	schedule config.ScheduleConfig,
	runner JobRunner,
	metrics observability.Metrics,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	ctxLogger := logger.With(
		"operation", "new_job_queue_service",
		"component", "river_queue",
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", component)

	periodic, err := ParseSchedule(schedule.Cron)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, err
	}

	// River requires pgx, not database/sql
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", "error", err)
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", "error", err)
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", "error", err)
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewBadgeSyncWorker(runner, ctxLogger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			// One worker so two runs never overlap.
			QueueName: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				periodic,
				func() (river.JobArgs, *river.InsertOpts) {
					return BadgeSyncJob{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: schedule.RunOnStart},
			),
		},
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", "error", err)
		metrics.RecordOperationFailure(ctx, "initialize_service", component)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", component)
	metrics.RecordOperationDuration(ctx, "initialize_service", component, time.Since(start))

	ctxLogger.Info("Job queue service initialized", "schedule", schedule.Cron, "run_on_start", schedule.RunOnStart)
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
	}, nil
}

// Start starts the River client and its periodic job enqueuer.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", component)

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", "error", err)
		s.metrics.RecordOperationFailure(ctx, "start_service", component)
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", component)
	s.metrics.RecordOperationDuration(ctx, "start_service", component, time.Since(start))
	s.logger.Info("Job queue service started")
	return nil
}

// Stop waits for a running job to finish, then closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", component)
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", "error", err)
		s.metrics.RecordOperationFailure(ctx, "stop_service", component)
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", component)
	s.metrics.RecordOperationDuration(ctx, "stop_service", component, time.Since(start))
	s.logger.Info("Job queue service stopped")
	return nil
}

// Enqueue inserts a one-off run.
func (s *Service) Enqueue(ctx context.Context) error {
	res, err := s.client.Insert(ctx, BadgeSyncJob{}, nil)
	if err != nil {
		s.logger.Error("Failed to enqueue badge sync job", "error", err)
		return fmt.Errorf("failed to enqueue badge sync job: %w", err)
	}
	s.logger.Info("Badge sync job enqueued", "job_id", res.Job.ID)
	return nil
}

// HealthCheck verifies the queue tables are reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "health_check", component)

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", component)
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Where("kind = ?", BadgeSyncJob{}.Kind()).
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", "error", err)
		s.metrics.RecordOperationFailure(ctx, "health_check", component)
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "health_check", component)
	s.logger.Debug("Queue service health check passed", "badge_sync_jobs", count)
	return nil
}
