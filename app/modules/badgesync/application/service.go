package badgesyncservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/catalytics/catalytics-cron/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "BadgeSyncService"

// BadgeClient is the outbound call made once per public key.
type BadgeClient interface {
	SyncBadges(ctx context.Context, publicKey string) error
}

// SyncSummary counts the outcome of one sync pass.
type SyncSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

// OK reports whether every call succeeded.
func (s SyncSummary) OK() bool {
	return s.Failed == 0
}

// Service runs the badge sync phase.
type Service interface {
	SyncAll(ctx context.Context, publicKeys []string) SyncSummary
}

// BadgeSyncService calls the badge service for each key in order.
type BadgeSyncService struct {
	client  BadgeClient
	pacer   Pacer
	logger  *slog.Logger
	metrics observability.Metrics
	tracer  trace.Tracer
}

// NewBadgeSyncService creates a new BadgeSyncService.
func NewBadgeSyncService(
	client BadgeClient,
	pacer Pacer,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *BadgeSyncService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	if pacer == nil {
		pacer = FixedDelay(0)
	}
	return &BadgeSyncService{
		client:  client,
		pacer:   pacer,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// SyncAll issues one call per key, sequentially, pausing between calls but
// not after the last one. Failures are counted and the loop moves on.
// A cancelled context stops the loop before the next call.
func (s *BadgeSyncService) SyncAll(ctx context.Context, publicKeys []string) SyncSummary {
	const operation = "SyncAll"

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation, trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.Int("public_keys", len(publicKeys)),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
	}()

	summary := SyncSummary{Total: len(publicKeys)}
	if len(publicKeys) == 0 {
		s.logger.InfoContext(ctx, "No public keys to sync")
		s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
		return summary
	}

	s.logger.InfoContext(ctx, "Starting badge sync", "count", len(publicKeys))

	for i, key := range publicKeys {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				s.logger.WarnContext(ctx, "Badge sync interrupted",
					"processed", i,
					"total", len(publicKeys),
					"error", err,
				)
				// Keys never attempted count as failures.
				summary.Failed += len(publicKeys) - i
				break
			}
		}

		s.logger.InfoContext(ctx, "Processing", "progress", i+1, "total", len(publicKeys), "public_key", key)

		if err := s.client.SyncBadges(ctx, key); err != nil {
			summary.Failed++
			s.metrics.RecordSyncCall(ctx, observability.OutcomeFailure)
			s.logger.ErrorContext(ctx, "Failed to sync badges", "public_key", key, "error", err)
			continue
		}

		summary.Succeeded++
		s.metrics.RecordSyncCall(ctx, observability.OutcomeSuccess)
		s.logger.InfoContext(ctx, "Successfully synced badges", "public_key", key)
	}

	span.SetAttributes(
		attribute.Int("succeeded", summary.Succeeded),
		attribute.Int("failed", summary.Failed),
	)

	if !summary.OK() {
		span.SetStatus(codes.Error, "some badge syncs failed")
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
	} else {
		s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	}

	s.logger.InfoContext(ctx, "Badge sync completed",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary
}
