// Package engine implements the job/step execution engine: chunk-oriented
// and tasklet-oriented step drivers, a sequential job driver, and the
// builders callers use to assemble both.
package engine

import (
	"context"

	"github.com/sboussekeyt/spring-batch-rs/model"
)

// Reader produces a lazy sequence of input items. Read returns ok=false to
// signal end-of-stream; once it has, subsequent calls must keep returning
// ok=false. The engine never calls Read concurrently with itself.
type Reader[I any] interface {
	Read(ctx context.Context) (item I, ok bool, err error)
}

// ReaderFunc adapts a plain function to a Reader.
type ReaderFunc[I any] func(ctx context.Context) (I, bool, error)

func (f ReaderFunc[I]) Read(ctx context.Context) (I, bool, error) { return f(ctx) }

// Processor transforms one input item into one output item. Returning an
// error whose kind is batcherr.Filtered drops the item without failing the
// step or consuming skip budget.
type Processor[I, O any] interface {
	Process(ctx context.Context, item I) (O, error)
}

// ProcessorFunc adapts a plain function to a Processor.
type ProcessorFunc[I, O any] func(ctx context.Context, item I) (O, error)

func (f ProcessorFunc[I, O]) Process(ctx context.Context, item I) (O, error) { return f(ctx, item) }

// Writer accepts a chunk of output items as a single commit unit. Open,
// Flush and Close are optional lifecycle hooks, checked for via type
// assertion; a Writer that has no use for them simply doesn't implement
// them.
type Writer[O any] interface {
	Write(ctx context.Context, items []O) error
}

// Opener, Flusher and Closer are optional lifecycle extensions a Writer may
// implement; the chunk step driver type-asserts for them.
type Opener interface {
	Open(ctx context.Context) error
}

type Flusher interface {
	Flush(ctx context.Context) error
}

type Closer interface {
	Close(ctx context.Context) error
}

// RepeatStatus is returned by a Tasklet to tell the step driver whether to
// call it again.
type RepeatStatus int

const (
	Finished RepeatStatus = iota
	Continuable
)

// Tasklet performs one unit of work end-to-end. The step driver calls
// Execute in a loop while it returns Continuable.
type Tasklet interface {
	Execute(ctx context.Context, view model.StepExecutionView) (RepeatStatus, error)
}

// TaskletFunc adapts a plain function to a Tasklet.
type TaskletFunc func(ctx context.Context, view model.StepExecutionView) (RepeatStatus, error)

func (f TaskletFunc) Execute(ctx context.Context, view model.StepExecutionView) (RepeatStatus, error) {
	return f(ctx, view)
}
