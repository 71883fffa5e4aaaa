package jobservice

import (
	"context"
	"log/slog"
	"time"

	applicantservice "github.com/catalytics/catalytics-cron/app/modules/applicant/application"
	badgesyncservice "github.com/catalytics/catalytics-cron/app/modules/badgesync/application"
	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Runner executes one badge sync and leaderboard refresh pass.
type Runner struct {
	applicants  applicantservice.Service
	badgeSync   badgesyncservice.Service
	leaderboard leaderboardservice.Service
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(
	applicants applicantservice.Service,
	badgeSync badgesyncservice.Service,
	leaderboard leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		applicants:  applicants,
		badgeSync:   badgeSync,
		leaderboard: leaderboard,
		logger:      logger,
		tracer:      tracer,
		now:         time.Now,
	}
}

// Run lists the applicants, syncs their badges, then refreshes the
// leaderboard. The refresh runs even when some syncs failed.
func (r *Runner) Run(ctx context.Context) Report {
	report := Report{RunID: uuid.NewString(), StartedAt: r.now()}
	ctx = observability.WithCorrelationID(ctx, report.RunID)

	var span trace.Span
	if r.tracer != nil {
		ctx, span = r.tracer.Start(ctx, "BadgeSyncJob", trace.WithAttributes(
			attribute.String("run_id", report.RunID),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	r.logger.InfoContext(ctx, "Starting badge sync and leaderboard refresh process",
		observability.CorrelationAttr(ctx),
	)

	// Phase 1
	r.logger.InfoContext(ctx, "Phase 1: Badge Synchronization", observability.CorrelationAttr(ctx))
	keys := r.applicants.ListPublicKeys(ctx)
	if len(keys) == 0 {
		r.logger.InfoContext(ctx, "No public keys found for badge sync, continuing to leaderboard refresh",
			observability.CorrelationAttr(ctx),
		)
	}
	report.Sync = r.badgeSync.SyncAll(ctx, keys)

	// Phase 2
	r.logger.InfoContext(ctx, "Phase 2: Leaderboard Refresh", observability.CorrelationAttr(ctx))
	report.Before = r.stats(ctx, "Pre-refresh leaderboard")

	report.Refresh, report.RefreshErr = r.leaderboard.RefreshLeaderboard(ctx)
	if report.RefreshErr == nil {
		report.After = r.stats(ctx, "Post-refresh leaderboard")
	}

	report.FinishedAt = r.now()

	if !report.OK() {
		span.SetStatus(codes.Error, "job finished with issues")
	}
	r.logger.InfoContext(ctx, "Job finished",
		observability.CorrelationAttr(ctx),
		"synced", report.Sync.Succeeded,
		"sync_failed", report.Sync.Failed,
		"refresh_ok", report.RefreshErr == nil,
		"ok", report.OK(),
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)
	return report
}

// stats is best effort: a failure only costs the log line.
func (r *Runner) stats(ctx context.Context, label string) *Stats {
	s, err := r.leaderboard.Stats(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "Error getting leaderboard stats",
			observability.CorrelationAttr(ctx),
			"error", err,
		)
		return nil
	}
	out := Stats(*s)
	r.logger.InfoContext(ctx, label,
		"entries", out.TotalEntries,
		"max_score", out.MaxScore,
		"min_score", out.MinScore,
		"entries_with_history", out.EntriesWithHistory,
	)
	return &out
}
