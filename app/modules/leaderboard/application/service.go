package leaderboardservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
	leaderboarddb "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/repositories"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeaderboardService"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo       leaderboarddb.Repository
	applicants applicantdb.Repository
	logger     *slog.Logger
	metrics    observability.Metrics
	tracer     trace.Tracer
	db         *bun.DB
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	applicants applicantdb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &LeaderboardService{
		repo:       repo,
		applicants: applicants,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		db:         db,
	}
}

// RefreshLeaderboard runs the three refresh steps in one transaction.
// Any step failing rolls back the whole refresh.
func (s *LeaderboardService) RefreshLeaderboard(ctx context.Context) (RefreshResult, error) {
	return withTelemetry(s, ctx, "RefreshLeaderboard", "leaderboard_entries", func(ctx context.Context) (RefreshResult, error) {
		return runInTx(s, ctx, s.refreshLogic)
	})
}

func (s *LeaderboardService) refreshLogic(ctx context.Context, db bun.IDB) (RefreshResult, error) {
	var result RefreshResult
	var err error

	s.logger.InfoContext(ctx, "Calculating current rankings from badge data", observability.CorrelationAttr(ctx))

	if result.Updated, err = s.repo.AccumulateExisting(ctx, db); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to update existing entries: %w", err)
	}
	s.logger.InfoContext(ctx, "Updated existing leaderboard entries", "count", result.Updated)

	if result.Inserted, err = s.repo.InsertMissing(ctx, db); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to insert new entries: %w", err)
	}
	s.logger.InfoContext(ctx, "Inserted new leaderboard entries", "count", result.Inserted)

	if result.Ranked, err = s.repo.ReassignRanks(ctx, db); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to reassign ranks: %w", err)
	}

	s.metrics.RecordLeaderboardSize(ctx, result.Ranked)
	return result, nil
}

// Stats returns the aggregate figures of the leaderboard.
func (s *LeaderboardService) Stats(ctx context.Context) (*leaderboarddb.Stats, error) {
	return withTelemetry(s, ctx, "Stats", "leaderboard_entries", func(ctx context.Context) (*leaderboarddb.Stats, error) {
		return s.repo.Stats(ctx, nil)
	})
}

// GetLeaderboard returns a page of masked entries. Without a page the page
// holding req.PublicKey is returned.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, req ListRequest) (*LeaderboardPage, error) {
	return withTelemetry(s, ctx, "GetLeaderboard", req.PublicKey, func(ctx context.Context) (*LeaderboardPage, error) {
		limit := normalizeLimit(req.Limit)

		var user UserContext
		if req.PublicKey != "" {
			entry, err := s.repo.GetByPublicKey(ctx, nil, req.PublicKey)
			switch {
			case err == nil:
				user.Rank = entry.Rank
				user.TotalScore = entry.TotalScore
			case errors.Is(err, leaderboarddb.ErrNotFound):
			default:
				return nil, err
			}
		}

		page := userPage(user.Rank, limit)
		if req.Page != nil {
			page = max(*req.Page, 1)
		}
		user.IsOnCurrentPage = isOnPage(user.Rank, page, limit)

		entries, err := s.repo.ListEntries(ctx, nil, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
		total, err := s.repo.CountEntries(ctx, nil)
		if err != nil {
			return nil, err
		}

		out := make([]PageEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, PageEntry{
				PublicKey:  MaskPublicKey(e.PublicKey),
				Rank:       e.Rank,
				TotalScore: e.TotalScore,
			})
		}

		return &LeaderboardPage{
			Leaderboard: out,
			Pagination:  Pagination{Page: page, Limit: limit, Total: total},
			UserContext: user,
		}, nil
	})
}

// GetUserEntry returns the stored standing of an applicant. An applicant not
// yet on the leaderboard gets rank 0 and its live badge sum.
func (s *LeaderboardService) GetUserEntry(ctx context.Context, publicKey string) (UserEntry, error) {
	return withTelemetry(s, ctx, "GetUserEntry", publicKey, func(ctx context.Context) (UserEntry, error) {
		entry, err := s.repo.GetByPublicKey(ctx, nil, publicKey)
		if err == nil {
			return UserEntry{Rank: entry.Rank, TotalScore: entry.TotalScore}, nil
		}
		if !errors.Is(err, leaderboarddb.ErrNotFound) {
			return UserEntry{}, err
		}
		if s.applicants == nil {
			return UserEntry{}, nil
		}

		applicant, err := s.applicants.GetByPublicKey(ctx, nil, publicKey)
		if err != nil {
			if errors.Is(err, applicantdb.ErrNotFound) {
				return UserEntry{}, nil
			}
			return UserEntry{}, err
		}
		sum, err := s.applicants.BadgeSum(ctx, nil, applicant.ID)
		if err != nil {
			return UserEntry{}, err
		}
		return UserEntry{TotalScore: sum}, nil
	})
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[T],
) (result T, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, "Operation triggered",
		observability.CorrelationAttr(ctx),
		slog.String("operation", operationName),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				observability.CorrelationAttr(ctx),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			observability.CorrelationAttr(ctx),
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.DebugContext(ctx, "Operation completed successfully",
		observability.CorrelationAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[T any](
	s *LeaderboardService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
