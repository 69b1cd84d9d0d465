// Package metrics defines the engine's observability hooks: a metric
// recorder for counters and a tracer for spans. Both are ambient — the
// engine never fails because of them and works fully with the no-op
// implementations.
package metrics

import "context"

// Recorder records counters for job and step lifecycle events. All methods
// must be safe to call from a single goroutine per step (the engine never
// calls a Recorder concurrently for the same step).
type Recorder interface {
	RecordJobStart(jobName string)
	RecordJobEnd(jobName string, completed bool)
	RecordStepStart(stepName string)
	RecordStepEnd(stepName string, completed bool)
	RecordItemRead(stepName string)
	RecordItemSkip(stepName string, category string)
	RecordChunkCommit(stepName string, success bool)
}

// Tracer creates spans around job and step executions.
type Tracer interface {
	StartJobSpan(ctx context.Context, jobName string) (context.Context, func())
	StartStepSpan(ctx context.Context, stepName string) (context.Context, func())
}
