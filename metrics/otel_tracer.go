package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OTelTracer is a Tracer backed by an OpenTelemetry trace.Tracer, producing
// one span per job or step execution.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer builds a Tracer using the tracer named instrumentationName
// from the global OpenTelemetry TracerProvider. Callers wire a real
// TracerProvider (e.g. via go.opentelemetry.io/otel/sdk/trace) with
// otel.SetTracerProvider before constructing jobs that use this tracer.
func NewOTelTracer(instrumentationName string) *OTelTracer {
	return &OTelTracer{tracer: otel.Tracer(instrumentationName)}
}

func (t *OTelTracer) StartJobSpan(ctx context.Context, jobName string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "batch.job",
		trace.WithAttributes(attribute.String("batch.job_name", jobName)))
	return ctx, func() { span.End() }
}

func (t *OTelTracer) StartStepSpan(ctx context.Context, stepName string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "batch.step",
		trace.WithAttributes(attribute.String("batch.step_name", stepName)))
	return ctx, func() { span.End() }
}

var _ Tracer = (*OTelTracer)(nil)
