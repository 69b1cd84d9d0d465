package engine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

// sliceReader yields the given items in order, then end-of-stream forever.
type sliceReader struct {
	items []int
	pos   int
}

func (r *sliceReader) Read(ctx context.Context) (int, bool, error) {
	if r.pos >= len(r.items) {
		return 0, false, nil
	}
	item := r.items[r.pos]
	r.pos++
	return item, true, nil
}

// recordingWriter records every chunk it is asked to write, optionally
// failing on specific call indices (1-based).
type recordingWriter struct {
	chunks   [][]int
	failOn   map[int]bool
	callNum  int
}

func (w *recordingWriter) Write(ctx context.Context, items []int) error {
	w.callNum++
	if w.failOn[w.callNum] {
		return fmt.Errorf("simulated write failure on call %d", w.callNum)
	}
	cp := append([]int(nil), items...)
	w.chunks = append(w.chunks, cp)
	return nil
}

// lifecycleWriter wraps recordingWriter's behavior and additionally
// implements Opener/Flusher/Closer so tests can assert the chunk step's
// lifecycle hooks actually ran, including on a skip-limit-exceeded failure
// exit where Close must still be invoked best-effort.
type lifecycleWriter struct {
	recordingWriter
	opened     bool
	flushCalls int
	closeCalls int
	closeErr   error
}

func (w *lifecycleWriter) Open(ctx context.Context) error {
	w.opened = true
	return nil
}

func (w *lifecycleWriter) Flush(ctx context.Context) error {
	w.flushCalls++
	return nil
}

func (w *lifecycleWriter) Close(ctx context.Context) error {
	w.closeCalls++
	return w.closeErr
}

func doubleProcessor() engine.Processor[int, int] {
	return engine.ProcessorFunc[int, int](func(ctx context.Context, item int) (int, error) {
		return item * 2, nil
	})
}

func failingOnProcessor(failItems map[int]bool) engine.Processor[int, int] {
	return engine.ProcessorFunc[int, int](func(ctx context.Context, item int) (int, error) {
		if failItems[item] {
			return 0, fmt.Errorf("simulated process failure on item %d", item)
		}
		return item, nil
	})
}

func filterOddProcessor() engine.Processor[int, int] {
	return engine.ProcessorFunc[int, int](func(ctx context.Context, item int) (int, error) {
		if item%2 != 0 {
			return 0, batcherr.Newf(batcherr.Filtered, "", "odd item %d filtered", item)
		}
		return item, nil
	})
}

// S1 — happy path, chunk.
func TestChunkStep_S1_HappyPath(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5}}
	writer := &recordingWriter{}

	step, err := engine.NewChunkStep[int, int]("double").
		Reader(reader).
		Processor(doubleProcessor()).
		Writer(writer).
		CommitInterval(2).
		SkipLimit(0).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("double")
	err = step.Execute(context.Background(), se)
	require.NoError(t, err)

	assert.Equal(t, model.Completed, se.Status)
	assert.Equal(t, 5, se.ReadCount)
	assert.Equal(t, 5, se.WriteCount)
	assert.Equal(t, 0, se.ReadSkipCount)
	assert.Equal(t, 0, se.ProcessSkipCount)
	assert.Equal(t, 0, se.WriteSkipCount)
	assert.Equal(t, [][]int{{2, 4}, {6, 8}, {10}}, writer.chunks)
}

// S2 — write skip tolerated.
func TestChunkStep_S2_WriteSkipTolerated(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5}}
	writer := &recordingWriter{failOn: map[int]bool{2: true}}

	step, err := engine.NewChunkStep[int, int]("double").
		Reader(reader).
		Processor(doubleProcessor()).
		Writer(writer).
		CommitInterval(2).
		SkipLimit(2).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("double")
	err = step.Execute(context.Background(), se)
	require.NoError(t, err)

	assert.Equal(t, model.Completed, se.Status)
	assert.Equal(t, 5, se.ReadCount)
	assert.Equal(t, 3, se.WriteCount)
	assert.Equal(t, 2, se.WriteSkipCount)
}

// S3 — process skip exceeded.
func TestChunkStep_S3_ProcessSkipExceeded(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}
	writer := &recordingWriter{}
	proc := failingOnProcessor(map[int]bool{3: true, 7: true, 9: true})

	step, err := engine.NewChunkStep[int, int]("proc").
		Reader(reader).
		Processor(proc).
		Writer(writer).
		CommitInterval(4).
		SkipLimit(2).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("proc")
	err = step.Execute(context.Background(), se)
	require.Error(t, err)

	assert.Equal(t, model.Failed, se.Status)
	require.NotNil(t, se.LastErr)
	assert.Equal(t, batcherr.ProcessError, se.LastErr.Kind)
	assert.Equal(t, 9, se.ReadCount)
	assert.Equal(t, 3, se.ProcessSkipCount)
	assert.Equal(t, 4, se.WriteCount)
}

// S4 — filter only.
func TestChunkStep_S4_FilterOnly(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5, 6}}
	writer := &recordingWriter{}

	step, err := engine.NewChunkStep[int, int]("filter").
		Reader(reader).
		Processor(filterOddProcessor()).
		Writer(writer).
		CommitInterval(10).
		SkipLimit(0).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("filter")
	err = step.Execute(context.Background(), se)
	require.NoError(t, err)

	assert.Equal(t, model.Completed, se.Status)
	assert.Equal(t, 6, se.ReadCount)
	assert.Equal(t, 3, se.WriteCount)
	assert.Equal(t, 3, se.ProcessSkipCount)
	assert.Equal(t, [][]int{{2, 4, 6}}, writer.chunks)
}

// S5 — tasklet repeat.
func TestTaskletStep_S5_Repeat(t *testing.T) {
	calls := 0
	tasklet := engine.TaskletFunc(func(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
		calls++
		if calls < 3 {
			return engine.Continuable, nil
		}
		return engine.Finished, nil
	})

	step, err := engine.NewTaskletStep("work").Tasklet(tasklet).Build()
	require.NoError(t, err)

	se := model.NewStepExecution("work")
	err = step.Execute(context.Background(), se)
	require.NoError(t, err)

	assert.Equal(t, model.Completed, se.Status)
	assert.Equal(t, 3, calls)
}

// S6 — multi-step short-circuit.
func TestJob_S6_MultiStepShortCircuit(t *testing.T) {
	stepA, err := engine.NewTaskletStep("A").
		Tasklet(engine.TaskletFunc(func(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
			return engine.Finished, nil
		})).
		Build()
	require.NoError(t, err)

	writerB := &recordingWriter{failOn: map[int]bool{1: true}}
	stepB, err := engine.NewChunkStep[int, int]("B").
		Reader(&sliceReader{items: []int{1, 2, 3}}).
		Writer(writerB).
		CommitInterval(3).
		SkipLimit(0).
		Build()
	require.NoError(t, err)

	cCalled := false
	stepC, err := engine.NewTaskletStep("C").
		Tasklet(engine.TaskletFunc(func(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
			cCalled = true
			return engine.Finished, nil
		})).
		Build()
	require.NoError(t, err)

	job, err := engine.NewJob("job").Start(stepA).Next(stepB).Next(stepC).Build()
	require.NoError(t, err)

	je := job.Run(context.Background())

	assert.Equal(t, model.Failed, je.Status)
	require.Len(t, je.StepExecutions, 2)
	a, ok := je.StepExecution("A")
	require.True(t, ok)
	assert.Equal(t, model.Completed, a.Status)
	b, ok := je.StepExecution("B")
	require.True(t, ok)
	assert.Equal(t, model.Failed, b.Status)
	_, ok = je.StepExecution("C")
	assert.False(t, ok)
	assert.False(t, cCalled)
}

// Skip-limit tightness: exactly L skippable failures completes; L+1 fails.
func TestChunkStep_SkipLimitTightness(t *testing.T) {
	for _, limit := range []int{0, 1, 2, 3} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			items := make([]int, 0)
			failSet := make(map[int]bool)
			for i := 1; i <= limit+1; i++ {
				items = append(items, i)
				failSet[i] = true
			}
			items = append(items, 1000) // one surviving item

			reader := &sliceReader{items: items}
			writer := &recordingWriter{}
			step, err := engine.NewChunkStep[int, int]("t").
				Reader(reader).
				Processor(failingOnProcessor(failSet)).
				Writer(writer).
				CommitInterval(100).
				SkipLimit(limit).
				Build()
			require.NoError(t, err)

			se := model.NewStepExecution("t")
			runErr := step.Execute(context.Background(), se)
			assert.Equal(t, model.Failed, se.Status)
			assert.Error(t, runErr)
			assert.Equal(t, limit+1, se.ProcessSkipCount)
		})

		t.Run(fmt.Sprintf("limit=%d exact", limit), func(t *testing.T) {
			items := make([]int, 0)
			failSet := make(map[int]bool)
			for i := 1; i <= limit; i++ {
				items = append(items, i)
				failSet[i] = true
			}
			items = append(items, 1000)

			reader := &sliceReader{items: items}
			writer := &recordingWriter{}
			step, err := engine.NewChunkStep[int, int]("t").
				Reader(reader).
				Processor(failingOnProcessor(failSet)).
				Writer(writer).
				CommitInterval(100).
				SkipLimit(limit).
				Build()
			require.NoError(t, err)

			se := model.NewStepExecution("t")
			runErr := step.Execute(context.Background(), se)
			assert.NoError(t, runErr)
			assert.Equal(t, model.Completed, se.Status)
			assert.Equal(t, limit, se.ProcessSkipCount)
		})
	}
}

// Close must be invoked even when a step fails via skip-limit-exceeded, not
// only on normal completion, so a writer's resources are never leaked.
func TestChunkStep_CloseInvokedOnSkipLimitExceededFailure(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}}
	writer := &lifecycleWriter{}
	proc := failingOnProcessor(map[int]bool{3: true, 7: true, 9: true})

	step, err := engine.NewChunkStep[int, int]("proc").
		Reader(reader).
		Processor(proc).
		Writer(writer).
		CommitInterval(4).
		SkipLimit(2).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("proc")
	err = step.Execute(context.Background(), se)
	require.Error(t, err)

	assert.Equal(t, model.Failed, se.Status)
	require.NotNil(t, se.LastErr)
	assert.Equal(t, batcherr.ProcessError, se.LastErr.Kind)
	assert.True(t, writer.opened)
	assert.Equal(t, 1, writer.closeCalls)
}

// A Close failure on a skip-limit-exceeded exit must not mask the error that
// actually caused the step to fail.
func TestChunkStep_CloseFailureDoesNotMaskTriggeringError(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}}
	writer := &lifecycleWriter{closeErr: fmt.Errorf("simulated close failure")}
	proc := failingOnProcessor(map[int]bool{3: true, 7: true, 9: true})

	step, err := engine.NewChunkStep[int, int]("proc").
		Reader(reader).
		Processor(proc).
		Writer(writer).
		CommitInterval(4).
		SkipLimit(2).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("proc")
	err = step.Execute(context.Background(), se)
	require.Error(t, err)

	assert.Equal(t, model.Failed, se.Status)
	require.NotNil(t, se.LastErr)
	assert.Equal(t, batcherr.ProcessError, se.LastErr.Kind)
	assert.Equal(t, 1, writer.closeCalls)
}

// Close still runs on the normal-completion path with a lifecycle-capable
// writer (regression guard for the success path alongside the failure ones
// above).
func TestChunkStep_CloseInvokedOnNormalCompletion(t *testing.T) {
	reader := &sliceReader{items: []int{1, 2, 3, 4, 5}}
	writer := &lifecycleWriter{}

	step, err := engine.NewChunkStep[int, int]("double").
		Reader(reader).
		Processor(doubleProcessor()).
		Writer(writer).
		CommitInterval(2).
		SkipLimit(0).
		Build()
	require.NoError(t, err)

	se := model.NewStepExecution("double")
	err = step.Execute(context.Background(), se)
	require.NoError(t, err)

	assert.Equal(t, model.Completed, se.Status)
	assert.True(t, writer.opened)
	assert.Equal(t, 1, writer.flushCalls)
	assert.Equal(t, 1, writer.closeCalls)
}

func TestBuilder_MissingRequiredFieldsIsLifecycleError(t *testing.T) {
	_, err := engine.NewChunkStep[int, int]("").Build()
	require.Error(t, err)
	be, ok := batcherr.As(err)
	require.True(t, ok)
	assert.Equal(t, batcherr.LifecycleError, be.Kind)

	_, err = engine.NewJob("j").Build()
	be, ok = batcherr.As(err)
	require.True(t, ok)
	assert.Equal(t, batcherr.LifecycleError, be.Kind)
}

func TestBuilder_DuplicateStepNames(t *testing.T) {
	s1, err := engine.NewTaskletStep("dup").
		Tasklet(engine.TaskletFunc(func(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
			return engine.Finished, nil
		})).Build()
	require.NoError(t, err)
	s2, err := engine.NewTaskletStep("dup").
		Tasklet(engine.TaskletFunc(func(ctx context.Context, view model.StepExecutionView) (engine.RepeatStatus, error) {
			return engine.Finished, nil
		})).Build()
	require.NoError(t, err)

	_, err = engine.NewJob("j").Start(s1).Next(s2).Build()
	require.Error(t, err)
	be, ok := batcherr.As(err)
	require.True(t, ok)
	assert.Equal(t, batcherr.LifecycleError, be.Kind)
}
