package engine

import (
	"context"
	"time"

	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
	"github.com/sboussekeyt/spring-batch-rs/model"
)

// Job runs an ordered, non-empty list of steps sequentially, stopping on the
// first step that fails.
type Job struct {
	name     string
	steps    []Step
	recorder metrics.Recorder
	tracer   metrics.Tracer
}

// Run executes every step in declared order. It never returns a Go error:
// failure is encoded in the returned JobExecution's Status, per the engine's
// contract that callers discriminate success/failure by reading the record.
func (j *Job) Run(ctx context.Context) *model.JobExecution {
	je := model.NewJobExecution(j.name)
	je.Status = model.Started
	je.Start = time.Now()

	ctx, endSpan := j.tracer.StartJobSpan(ctx, j.name)
	defer endSpan()
	j.recorder.RecordJobStart(j.name)

	logging.Infof("job %s starting with %d step(s)", j.name, len(j.steps))

	for _, step := range j.steps {
		se := model.NewStepExecution(step.StepName())
		je.StepExecutions = append(je.StepExecutions, se)

		if err := step.Execute(ctx, se); err != nil {
			je.Status = model.Failed
			je.End = time.Now()
			j.recorder.RecordJobEnd(j.name, false)
			logging.Warnf("job %s failed at step %s: %v", j.name, step.StepName(), err)
			return je
		}
	}

	je.Status = model.Completed
	je.End = time.Now()
	j.recorder.RecordJobEnd(j.name, true)
	logging.Infof("job %s completed", j.name)
	return je
}
