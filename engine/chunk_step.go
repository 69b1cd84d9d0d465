package engine

import (
	"context"
	"time"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

// Step is anything the job driver can run to a terminal state. ChunkStep and
// TaskletStep are the two implementations the engine ships.
type Step interface {
	StepName() string
	Execute(ctx context.Context, se *model.StepExecution) error
}

// ChunkStep drives a read-process-write loop over chunks of at most
// CommitInterval output items. Use NewChunkStep to construct one with
// validation; the zero value is not usable.
type ChunkStep[I, O any] struct {
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

func (s *ChunkStep[I, O]) StepName() string { return s.name }

// Execute runs the chunk loop: fill a buffer up to CommitInterval items,
// applying skip accounting to read and process failures, then commit the
// buffer in one Write call, applying skip accounting to write failures for
// the whole chunk.
func (s *ChunkStep[I, O]) Execute(ctx context.Context, se *model.StepExecution) error {
	se.Status = model.Started
	se.Start = time.Now()

	ctx, endSpan := s.tracer.StartStepSpan(ctx, se.Name)
	defer endSpan()
	s.recorder.RecordStepStart(se.Name)

	if opener, ok := s.writer.(Opener); ok {
		if err := opener.Open(ctx); err != nil {
			return s.failAndClose(ctx, se, batcherr.New(batcherr.LifecycleError, s.name, err))
		}
	}

	skips := newSkipAccounting(s.skipLimit)

	for {
		buf := make([]O, 0, s.commitInterval)
		eof := false

		for len(buf) < s.commitInterval && !eof {
			item, ok, err := s.reader.Read(ctx)
			if err != nil {
				se.ReadSkipCount++
				s.recorder.RecordItemSkip(se.Name, "read")
				be := batcherr.New(batcherr.ReadError, s.name, err)
				if over := s.evaluateSkip(skips, be); over {
					return s.failAndClose(ctx, se, be)
				}
				continue
			}
			if !ok {
				eof = true
				break
			}
			se.ReadCount++
			s.recorder.RecordItemRead(se.Name)

			out, perr := s.processor.Process(ctx, item)
			if perr != nil {
				be, isBatchErr := batcherr.As(perr)
				if !isBatchErr {
					be = batcherr.New(batcherr.ProcessError, s.name, perr)
				}
				if be.Kind == batcherr.Filtered {
					se.ProcessSkipCount++
					s.recorder.RecordItemSkip(se.Name, "filtered")
					continue
				}
				se.ProcessSkipCount++
				s.recorder.RecordItemSkip(se.Name, "process")
				if over := s.evaluateSkip(skips, be); over {
					return s.failAndClose(ctx, se, be)
				}
				continue
			}
			buf = append(buf, out)
		}

		if len(buf) > 0 {
			if err := s.writer.Write(ctx, buf); err != nil {
				se.WriteSkipCount += len(buf)
				s.recorder.RecordChunkCommit(se.Name, false)
				be := batcherr.New(batcherr.WriteError, s.name, err)
				if !s.skipPolicy.ShouldSkip(be) {
					return s.failAndClose(ctx, se, be)
				}
				overLimit := false
				for i := 0; i < len(buf); i++ {
					if skips.recordSkip() {
						overLimit = true
					}
				}
				if overLimit {
					return s.failAndClose(ctx, se, be)
				}
			} else {
				se.WriteCount += len(buf)
				s.recorder.RecordChunkCommit(se.Name, true)
			}
		}

		if eof && len(buf) == 0 {
			break
		}
	}

	if err := s.closeWriter(ctx); err != nil {
		return s.fail(se, err)
	}

	se.Status = model.Completed
	se.End = time.Now()
	s.recorder.RecordStepEnd(se.Name, true)
	logging.Infof("step %s completed: read=%d write=%d skips(read=%d process=%d write=%d)",
		s.name, se.ReadCount, se.WriteCount, se.ReadSkipCount, se.ProcessSkipCount, se.WriteSkipCount)
	return nil
}

// evaluateSkip applies the skip policy and, if the error is not even a skip
// candidate or the cumulative count has crossed the limit, returns true to
// signal the caller must fail the step.
func (s *ChunkStep[I, O]) evaluateSkip(skips *skipAccounting, be *batcherr.Error) bool {
	if !s.skipPolicy.ShouldSkip(be) {
		return true
	}
	return skips.recordSkip()
}

// closeWriter flushes then closes the writer if it implements those
// optional interfaces. Either failure is a LifecycleError.
func (s *ChunkStep[I, O]) closeWriter(ctx context.Context) *batcherr.Error {
	if flusher, ok := s.writer.(Flusher); ok {
		if err := flusher.Flush(ctx); err != nil {
			return batcherr.New(batcherr.LifecycleError, s.name, err)
		}
	}
	if closer, ok := s.writer.(Closer); ok {
		if err := closer.Close(ctx); err != nil {
			return batcherr.New(batcherr.LifecycleError, s.name, err)
		}
	}
	return nil
}

// failAndClose records be, closes the writer best-effort and seals the step
// as failed. Close is attempted even though the step is already failing, on
// an Open failure as well as on a skip-limit-exceeded exit, so a Writer's
// resources (e.g. an open *sql.DB) are released on every failure exit, not
// just on normal completion. Under the precedence rule in recordLastErr a
// close failure replaces be as LastErr only when be is itself a
// LifecycleError; a ReadError, ProcessError or WriteError is never masked.
func (s *ChunkStep[I, O]) failAndClose(ctx context.Context, se *model.StepExecution, be *batcherr.Error) error {
	s.recordLastErr(se, be)
	if closeErr := s.closeWriter(ctx); closeErr != nil {
		logging.Warnf("step %s: writer close failed while failing on: %v: %v", s.name, be, closeErr)
		s.recordLastErr(se, closeErr)
	}
	se.Status = model.Failed
	se.End = time.Now()
	s.recorder.RecordStepEnd(se.Name, false)
	logging.Warnf("step %s failed: %v", s.name, be)
	return be
}

// recordLastErr applies the close-failure-precedence rule: a LifecycleError
// only overrides an existing se.LastErr if that existing value is itself
// nil or a LifecycleError. It never overrides a ReadError, ProcessError,
// WriteError or TaskletError that already explains why the step failed.
func (s *ChunkStep[I, O]) recordLastErr(se *model.StepExecution, be *batcherr.Error) {
	if se.LastErr == nil || se.LastErr.Kind == batcherr.LifecycleError {
		se.LastErr = be
	}
}

// fail seals the step execution as Failed, recording be as LastErr under the
// precedence rule of recordLastErr. It is used when the final Flush/Close of
// a normally finished chunk loop fails.
func (s *ChunkStep[I, O]) fail(se *model.StepExecution, be *batcherr.Error) error {
	s.recordLastErr(se, be)
	se.Status = model.Failed
	se.End = time.Now()
	s.recorder.RecordStepEnd(se.Name, false)
	logging.Warnf("step %s failed: %v", s.name, be)
	return be
}

var _ Step = (*ChunkStep[int, int])(nil)
