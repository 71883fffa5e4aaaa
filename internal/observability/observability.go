package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/catalytics/catalytics-cron/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName is used for the tracer and the default log attribute.
const ServiceName = "catalytics-cron"

// Observability carries the logger, tracer and metrics handed to every module.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  Metrics
	Registry *prometheus.Registry
}

// New builds the observability stack from configuration. Logs go to w.
func New(cfg config.ObservabilityConfig, w io.Writer) Observability {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With("service", ServiceName)
	if cfg.Environment != "" {
		logger = logger.With("env", cfg.Environment)
	}

	obs := Observability{
		Logger:  logger,
		Tracer:  otel.Tracer(ServiceName),
		Metrics: NewNoop(),
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs.Registry = reg
		obs.Metrics = NewPrometheusMetrics(reg)
	}

	return obs
}

// NewNoopObservability is used by tests and tools that want silence.
func NewNoopObservability() Observability {
	return Observability{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("test"),
		Metrics: NewNoop(),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
