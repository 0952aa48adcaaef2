package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"dtcli/internal/dataprocessing"
	"dtcli/internal/infrastructure"
)

const (
	TracerName = "dtcli.delta"
)

// Pipeline stages, used as span names and the stage metric attribute
const (
	StageLoad      = "load"
	StageTransform = "transform"
	StagePersist   = "persist"
	StageReport    = "report"
)

// RunTracer provides OpenTelemetry instrumentation for delta runs.
// Without providers spans are no-ops and no metrics are recorded.
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewRunTracer creates a tracer backed by providers, which may be nil
func NewRunTracer(providers *infrastructure.OTelProviders) *RunTracer {
	if providers == nil || providers.Tracer == nil {
		return &RunTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
	}
	return &RunTracer{
		tracer:  providers.Tracer,
		metrics: providers.Metrics,
	}
}

// TraceRun creates the span covering a whole run
func (rt *RunTracer) TraceRun(ctx context.Context, path, column string) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "delta.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("delta.path", path),
			attribute.String("delta.column", column),
		),
	)
}

// TraceStage starts a stage span. The returned func ends it, recording
// err on the span and the stage duration.
func (rt *RunTracer) TraceStage(ctx context.Context, stage string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := rt.tracer.Start(ctx, fmt.Sprintf("delta.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("delta.stage", stage)),
	)

	return ctx, func(err error) {
		duration := time.Since(start)
		span.SetAttributes(attribute.Float64("delta.stage.duration_seconds", duration.Seconds()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		if rt.metrics != nil {
			rt.metrics.RecordStage(ctx, stage, duration)
		}
	}
}

// RecordCompletion records the run statistics on span and as metrics
func (rt *RunTracer) RecordCompletion(ctx context.Context, span trace.Span, summary dataprocessing.Summary) {
	span.SetAttributes(
		attribute.Int("delta.rows", summary.Rows),
		attribute.Int("delta.nulls", summary.Nulls),
	)

	if rt.metrics != nil {
		quantiles := make([]float64, len(summary.Quantiles))
		for i, q := range summary.Quantiles {
			quantiles[i] = q.Q
		}
		rt.metrics.RecordSummary(ctx, summary.Rows, summary.Nulls, summary.Mean, summary.StdDev,
			quantiles, summary.QuantileValues())
	}
}
