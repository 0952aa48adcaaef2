package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"dtcli/internal/config"
)

const (
	ServiceName = "dt"
	MeterName   = "dtcli"
)

// OTelProviders holds the OpenTelemetry providers for one run
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Metrics        *RunMetrics
	Logger         *slog.Logger

	metricsFile string
}

// InitializeOTel wires tracing and metrics for a run. Spans go to traceOut
// when the stdout exporter is selected; metrics always land in a private
// Prometheus registry and are written out by Shutdown when a metrics file
// is configured.
func InitializeOTel(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*OTelProviders, error) {
	ctx := context.Background()

	res, err := createResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger:      logger,
		metricsFile: cfg.MetricsFile,
	}

	if err := initializeTracing(cfg, traceOut, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "OpenTelemetry initialization complete",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource() (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(cfg config.TelemetryConfig, out io.Writer, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		providers.TracerProvider = tp
		providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		providers.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics on a private registry
func initializeMetrics(res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	metrics, err := NewRunMetrics(providers.Meter)
	if err != nil {
		return err
	}
	providers.Metrics = metrics
	return nil
}

// RunMetrics are the instruments describing one delta run
type RunMetrics struct {
	Rows          metric.Int64Gauge
	NullRows      metric.Int64Gauge
	Mean          metric.Float64Gauge
	StdDev        metric.Float64Gauge
	Percentile    metric.Float64Gauge
	StageDuration metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	rows, err := meter.Int64Gauge("dt.rows",
		metric.WithDescription("Rows in the processed table"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rows gauge: %w", err)
	}

	nullRows, err := meter.Int64Gauge("dt.null_rows",
		metric.WithDescription("Rows whose delta is null"))
	if err != nil {
		return nil, fmt.Errorf("failed to create null rows gauge: %w", err)
	}

	mean, err := meter.Float64Gauge("dt.mean",
		metric.WithDescription("Mean of the non-null deltas"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mean gauge: %w", err)
	}

	stdDev, err := meter.Float64Gauge("dt.std",
		metric.WithDescription("Sample standard deviation of the non-null deltas"))
	if err != nil {
		return nil, fmt.Errorf("failed to create std gauge: %w", err)
	}

	percentile, err := meter.Float64Gauge("dt.percentile",
		metric.WithDescription("Delta value at a quantile"))
	if err != nil {
		return nil, fmt.Errorf("failed to create percentile gauge: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("dt.stage.duration",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}

	return &RunMetrics{
		Rows:          rows,
		NullRows:      nullRows,
		Mean:          mean,
		StdDev:        stdDev,
		Percentile:    percentile,
		StageDuration: stageDuration,
	}, nil
}

// RecordStage records how long a pipeline stage took
func (m *RunMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordSummary records the delta statistics. NaN values are skipped so an
// empty table exports no misleading gauges.
func (m *RunMetrics) RecordSummary(ctx context.Context, rows, nullRows int, mean, std float64, quantiles []float64, values []float64) {
	m.Rows.Record(ctx, int64(rows))
	m.NullRows.Record(ctx, int64(nullRows))
	if !math.IsNaN(mean) {
		m.Mean.Record(ctx, mean)
	}
	if !math.IsNaN(std) {
		m.StdDev.Record(ctx, std)
	}
	for i, q := range quantiles {
		if i >= len(values) || math.IsNaN(values[i]) {
			continue
		}
		m.Percentile.Record(ctx, values[i],
			metric.WithAttributes(attribute.String("quantile", strconv.FormatFloat(q, 'f', -1, 64))))
	}
}

// WriteMetricsFile writes the registry in Prometheus text format
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown flushes spans, writes the metrics file when configured and
// shuts the providers down
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.metricsFile != "" && p.Registry != nil {
		if err := p.WriteMetricsFile(p.metricsFile); err != nil {
			errs = append(errs, err)
		}
	}

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}

	p.Logger.DebugContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// SpanIDFromContext returns the active span ID, or "" without a recording span
func SpanIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.SpanID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}
