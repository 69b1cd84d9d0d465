// Package model holds the execution records the engine mutates while
// running a job: the per-step record and the aggregate per-job record.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/sboussekeyt/spring-batch-rs/batcherr"
)

// NewID generates a new unique execution identifier.
func NewID() string {
	return uuid.New().String()
}

// Status is the lifecycle state of a step or job execution.
type Status int

const (
	Starting Status = iota
	Started
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Started:
		return "Started"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ExecutionContext is a small key/value bag a reader, processor, writer or
// tasklet may use to stash state across calls. It is not persisted; it only
// lives for the duration of one step execution.
type ExecutionContext map[string]interface{}

func NewExecutionContext() ExecutionContext {
	return make(ExecutionContext)
}

func (c ExecutionContext) Put(key string, value interface{}) {
	c[key] = value
}

func (c ExecutionContext) Get(key string) (interface{}, bool) {
	v, ok := c[key]
	return v, ok
}

// StepExecution is the mutable per-run record of one step. The engine owns
// it exclusively while the step is live; after the step reaches a terminal
// status it is read-only.
type StepExecution struct {
	ID      string
	Name    string
	Status  Status
	Start   time.Time
	End     time.Time
	LastErr *batcherr.Error

	ReadCount         int
	WriteCount        int
	ReadSkipCount     int
	ProcessSkipCount  int
	WriteSkipCount    int

	ExecutionContext ExecutionContext
}

func NewStepExecution(name string) *StepExecution {
	return &StepExecution{
		ID:               NewID(),
		Name:             name,
		Status:           Starting,
		ExecutionContext: NewExecutionContext(),
	}
}

// View returns a read-only snapshot of the step execution, satisfying the
// engine's StepExecutionView contract for tasklets.
func (s *StepExecution) View() StepExecutionView {
	return StepExecutionView{
		Name:             s.Name,
		Start:            s.Start,
		ReadCount:        s.ReadCount,
		WriteCount:       s.WriteCount,
		ReadSkipCount:    s.ReadSkipCount,
		ProcessSkipCount: s.ProcessSkipCount,
		WriteSkipCount:   s.WriteSkipCount,
	}
}

// StepExecutionView exposes read-only fields of a StepExecution to
// collaborators (currently tasklets) that must not mutate the record
// directly.
type StepExecutionView struct {
	Name             string
	Start            time.Time
	ReadCount        int
	WriteCount       int
	ReadSkipCount    int
	ProcessSkipCount int
	WriteSkipCount   int
}

// JobExecution is the aggregate record of one job run: the ordered step
// executions it produced plus the job's own terminal status.
type JobExecution struct {
	ID             string
	JobName        string
	Status         Status
	Start          time.Time
	End            time.Time
	StepExecutions []*StepExecution
}

func NewJobExecution(jobName string) *JobExecution {
	return &JobExecution{
		ID:      NewID(),
		JobName: jobName,
		Status:  Starting,
	}
}

// StepExecution looks up a step execution by name; ok is false if no step
// with that name has run yet (e.g. because the job short-circuited before
// reaching it).
func (j *JobExecution) StepExecution(name string) (*StepExecution, bool) {
	for _, se := range j.StepExecutions {
		if se.Name == name {
			return se, true
		}
	}
	return nil, false
}
