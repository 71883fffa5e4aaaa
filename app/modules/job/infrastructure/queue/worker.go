package jobqueue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jobservice "github.com/catalytics/catalytics-cron/app/modules/job/application"
	"github.com/riverqueue/river"
)

// JobRunner runs one pass of the job.
type JobRunner interface {
	Run(ctx context.Context) jobservice.Report
}

// BadgeSyncWorker executes BadgeSyncJob.
type BadgeSyncWorker struct {
	river.WorkerDefaults[BadgeSyncJob]
	runner JobRunner
	logger *slog.Logger
}

// NewBadgeSyncWorker creates a new BadgeSyncWorker.
func NewBadgeSyncWorker(runner JobRunner, logger *slog.Logger) *BadgeSyncWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgeSyncWorker{runner: runner, logger: logger}
}

// Timeout disables River's job timeout; a run lasts as long as its key list.
func (w *BadgeSyncWorker) Timeout(*river.Job[BadgeSyncJob]) time.Duration {
	return -1
}

// Work runs the job and fails the River job when the run had issues.
func (w *BadgeSyncWorker) Work(ctx context.Context, job *river.Job[BadgeSyncJob]) error {
	w.logger.InfoContext(ctx, "Badge sync job started", "job_id", job.ID, "attempt", job.Attempt)

	report := w.runner.Run(ctx)

	var summary strings.Builder
	_ = report.WriteSummary(&summary)
	w.logger.InfoContext(ctx, "Badge sync job finished",
		"job_id", job.ID,
		"run_id", report.RunID,
		"ok", report.OK(),
		"summary", summary.String(),
	)

	if !report.OK() {
		return fmt.Errorf("badge sync run %s finished with issues: %d failed syncs, refresh error: %v",
			report.RunID, report.Sync.Failed, report.RefreshErr)
	}
	return nil
}
