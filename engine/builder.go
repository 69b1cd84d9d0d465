package engine

import (
	"context"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
)

// ChunkStepBuilder assembles a ChunkStep, validating eagerly on Build so
// configuration mistakes surface at wiring time rather than partway through
// a run: missing required fields and a commit interval below 1 are a
// LifecycleError; a negative skip limit, or a missing processor when I and O
// differ, is a ConfigurationError.
type ChunkStepBuilder[I, O any] struct {
	name           string
	reader         Reader[I]
	processor      Processor[I, O]
	writer         Writer[O]
	commitInterval int
	skipLimit      int
	skipPolicy     SkipPolicy
	recorder       metrics.Recorder
	tracer         metrics.Tracer
}

// NewChunkStep starts a chunk step builder. commitInterval is the default 1;
// callers should set it explicitly via CommitInterval.
func NewChunkStep[I, O any](name string) *ChunkStepBuilder[I, O] {
	return &ChunkStepBuilder[I, O]{
		name:           name,
		commitInterval: 1,
		skipPolicy:     DefaultSkipPolicy,
		recorder:       metrics.NewNoOpRecorder(),
		tracer:         metrics.NewNoOpTracer(),
	}
}

func (b *ChunkStepBuilder[I, O]) Reader(r Reader[I]) *ChunkStepBuilder[I, O] {
	b.reader = r
	return b
}

func (b *ChunkStepBuilder[I, O]) Processor(p Processor[I, O]) *ChunkStepBuilder[I, O] {
	b.processor = p
	return b
}

func (b *ChunkStepBuilder[I, O]) Writer(w Writer[O]) *ChunkStepBuilder[I, O] {
	b.writer = w
	return b
}

func (b *ChunkStepBuilder[I, O]) CommitInterval(n int) *ChunkStepBuilder[I, O] {
	b.commitInterval = n
	return b
}

func (b *ChunkStepBuilder[I, O]) SkipLimit(l int) *ChunkStepBuilder[I, O] {
	b.skipLimit = l
	return b
}

func (b *ChunkStepBuilder[I, O]) SkipPolicy(p SkipPolicy) *ChunkStepBuilder[I, O] {
	b.skipPolicy = p
	return b
}

func (b *ChunkStepBuilder[I, O]) MetricRecorder(r metrics.Recorder) *ChunkStepBuilder[I, O] {
	b.recorder = r
	return b
}

func (b *ChunkStepBuilder[I, O]) Tracer(t metrics.Tracer) *ChunkStepBuilder[I, O] {
	b.tracer = t
	return b
}

// Build validates the accumulated configuration and returns a ready-to-run
// Step, or the first validation error found (see the type-level doc comment
// for which Kind each case produces).
func (b *ChunkStepBuilder[I, O]) Build() (Step, error) {
	if b.name == "" {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "step name is required")
	}
	if b.reader == nil {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "reader is required")
	}
	if b.writer == nil {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "writer is required")
	}
	if b.commitInterval < 1 {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "commit_interval must be >= 1, got %d", b.commitInterval)
	}
	if b.skipLimit < 0 {
		return nil, batcherr.Newf(batcherr.ConfigurationError, b.name, "skip_limit must be >= 0, got %d", b.skipLimit)
	}

	processor := b.processor
	if processor == nil {
		p, err := identityProcessor[I, O]()
		if err != nil {
			return nil, batcherr.Newf(batcherr.ConfigurationError, b.name, "no processor configured and %v", err)
		}
		processor = p
	}

	return &ChunkStep[I, O]{
		name:           b.name,
		reader:         b.reader,
		processor:      processor,
		writer:         b.writer,
		commitInterval: b.commitInterval,
		skipLimit:      b.skipLimit,
		skipPolicy:     b.skipPolicy,
		recorder:       b.recorder,
		tracer:         b.tracer,
	}, nil
}

// identityProcessor synthesizes a pass-through Processor[I, O] when I and O
// are the same concrete type, used when a chunk step is built with no
// processor configured.
func identityProcessor[I, O any]() (Processor[I, O], error) {
	var zero I
	if _, ok := any(zero).(O); !ok {
		return nil, errMismatchedTypes
	}
	return ProcessorFunc[I, O](func(_ context.Context, item I) (O, error) {
		return any(item).(O), nil
	}), nil
}

var errMismatchedTypes = batcherr.Newf(batcherr.ConfigurationError, "", "input and output types differ")

// TaskletStepBuilder assembles a TaskletStep.
type TaskletStepBuilder struct {
	name     string
	tasklet  Tasklet
	recorder metrics.Recorder
	tracer   metrics.Tracer
}

func NewTaskletStep(name string) *TaskletStepBuilder {
	return &TaskletStepBuilder{
		name:     name,
		recorder: metrics.NewNoOpRecorder(),
		tracer:   metrics.NewNoOpTracer(),
	}
}

func (b *TaskletStepBuilder) Tasklet(t Tasklet) *TaskletStepBuilder {
	b.tasklet = t
	return b
}

func (b *TaskletStepBuilder) MetricRecorder(r metrics.Recorder) *TaskletStepBuilder {
	b.recorder = r
	return b
}

func (b *TaskletStepBuilder) Tracer(t metrics.Tracer) *TaskletStepBuilder {
	b.tracer = t
	return b
}

func (b *TaskletStepBuilder) Build() (Step, error) {
	if b.name == "" {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "step name is required")
	}
	if b.tasklet == nil {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "tasklet is required")
	}
	return &TaskletStep{
		name:     b.name,
		tasklet:  b.tasklet,
		recorder: b.recorder,
		tracer:   b.tracer,
	}, nil
}

// JobBuilder assembles a Job from an ordered, non-empty list of steps with
// unique names.
type JobBuilder struct {
	name     string
	steps    []Step
	recorder metrics.Recorder
	tracer   metrics.Tracer
}

func NewJob(name string) *JobBuilder {
	return &JobBuilder{
		name:     name,
		recorder: metrics.NewNoOpRecorder(),
		tracer:   metrics.NewNoOpTracer(),
	}
}

// Start sets the first step of the job.
func (b *JobBuilder) Start(s Step) *JobBuilder {
	b.steps = append(b.steps, s)
	return b
}

// Next appends a subsequent step.
func (b *JobBuilder) Next(s Step) *JobBuilder {
	b.steps = append(b.steps, s)
	return b
}

func (b *JobBuilder) MetricRecorder(r metrics.Recorder) *JobBuilder {
	b.recorder = r
	return b
}

func (b *JobBuilder) Tracer(t metrics.Tracer) *JobBuilder {
	b.tracer = t
	return b
}

func (b *JobBuilder) Build() (*Job, error) {
	if b.name == "" {
		return nil, batcherr.Newf(batcherr.LifecycleError, "", "job name is required")
	}
	if len(b.steps) == 0 {
		return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "job must have at least one step")
	}
	seen := make(map[string]bool, len(b.steps))
	for _, s := range b.steps {
		if seen[s.StepName()] {
			return nil, batcherr.Newf(batcherr.LifecycleError, b.name, "duplicate step name %q", s.StepName())
		}
		seen[s.StepName()] = true
	}
	return &Job{
		name:     b.name,
		steps:    b.steps,
		recorder: b.recorder,
		tracer:   b.tracer,
	}, nil
}
