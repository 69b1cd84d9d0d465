package engine

import (
	"context"
	"time"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

// TaskletStep drives a Tasklet to completion: it calls Execute in a loop
// while the tasklet returns Continuable. Skip accounting never applies to a
// tasklet step.
type TaskletStep struct {
	name     string
	tasklet  Tasklet
	recorder metrics.Recorder
	tracer   metrics.Tracer
}

func (s *TaskletStep) StepName() string { return s.name }

func (s *TaskletStep) Execute(ctx context.Context, se *model.StepExecution) error {
	se.Status = model.Started
	se.Start = time.Now()

	ctx, endSpan := s.tracer.StartStepSpan(ctx, se.Name)
	defer endSpan()
	s.recorder.RecordStepStart(se.Name)

	for {
		status, err := s.tasklet.Execute(ctx, se.View())
		if err != nil {
			be, ok := batcherr.As(err)
			if !ok {
				be = batcherr.New(batcherr.TaskletError, s.name, err)
			}
			se.LastErr = be
			se.Status = model.Failed
			se.End = time.Now()
			s.recorder.RecordStepEnd(se.Name, false)
			logging.Warnf("step %s failed: %v", s.name, be)
			return be
		}
		if status == Finished {
			break
		}
	}

	se.Status = model.Completed
	se.End = time.Now()
	s.recorder.RecordStepEnd(se.Name, true)
	logging.Infof("step %s completed", s.name)
	return nil
}

var _ Step = (*TaskletStep)(nil)
