package applicantservice

import (
	"context"
	"log/slog"
	"time"

	applicantdb "github.com/catalytics/catalytics-cron/app/modules/applicant/infrastructure/repositories"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ApplicantService"

// Service lists the applicants eligible for a badge sync.
type Service interface {
	// ListPublicKeys never fails: store errors are logged and yield an empty list.
	ListPublicKeys(ctx context.Context) []string
}

// ApplicantService implements the Service interface.
type ApplicantService struct {
	repo    applicantdb.Repository
	logger  *slog.Logger
	metrics observability.Metrics
	tracer  trace.Tracer
}

// NewApplicantService creates a new ApplicantService.
func NewApplicantService(
	repo applicantdb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *ApplicantService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &ApplicantService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// ListPublicKeys reads the public keys of all applicants.
func (s *ApplicantService) ListPublicKeys(ctx context.Context) []string {
	const operation = "ListPublicKeys"

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation, trace.WithAttributes(
			attribute.String("operation", operation),
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

	keys, err := s.repo.ListPublicKeys(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch public keys", "operation", operation, "error", err)
		s.metrics.RecordOperationFailure(ctx, operation, serviceName)
		span.RecordError(err)
		return []string{}
	}

	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "" {
			filtered = append(filtered, key)
		}
	}

	s.logger.InfoContext(ctx, "Found public keys in beta_applicants table", "count", len(filtered))
	s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
	span.SetAttributes(attribute.Int("public_keys", len(filtered)))
	return filtered
}
