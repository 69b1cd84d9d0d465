// Package batcherr defines the engine's closed error taxonomy. Every error
// the step and job drivers reason about is a *batcherr.Error carrying one of
// a fixed set of Kind values; skippability is a property of the kind, not of
// the individual error instance.
package batcherr

import (
	"errors"
	"fmt"
)

// Kind identifies why a batch operation failed. The set is closed: callers
// may switch over it exhaustively.
type Kind int

const (
	// ReadError is a reader call that failed before end-of-stream. Skippable by default.
	ReadError Kind = iota
	// ProcessError is a processor call that failed on a specific item. Skippable by default.
	ProcessError
	// Filtered is a processor decision to drop an item. Always non-fatal, never
	// charged against a skip limit.
	Filtered
	// WriteError is a writer call that failed on a chunk. Skippable by default;
	// consumes skip budget equal to the chunk's item count.
	WriteError
	// TaskletError is a tasklet call that failed. Never skippable.
	TaskletError
	// LifecycleError covers Open/Flush/Close failures and builder validation
	// failures. Never skippable.
	LifecycleError
	// ConfigurationError is an invalid value supplied to a builder, surfaced at
	// build time.
	ConfigurationError
)

func (k Kind) String() string {
	switch k {
	case ReadError:
		return "ReadError"
	case ProcessError:
		return "ProcessError"
	case Filtered:
		return "Filtered"
	case WriteError:
		return "WriteError"
	case TaskletError:
		return "TaskletError"
	case LifecycleError:
		return "LifecycleError"
	case ConfigurationError:
		return "ConfigurationError"
	default:
		return "UnknownError"
	}
}

// Skippable reports whether errors of this kind are ever eligible for skip
// accounting. Filtered is deliberately excluded: it is non-fatal but does not
// go through the skip limit at all.
func (k Kind) Skippable() bool {
	switch k {
	case ReadError, ProcessError, WriteError:
		return true
	default:
		return false
	}
}

// Error is the engine's single error type. Step names the step the error
// belongs to: the drivers set it on the errors they create when wrapping a
// collaborator's plain error, while a *Error that a collaborator returns
// itself is passed through unchanged, with whatever Step it set.
type Error struct {
	Kind Kind
	Step string
	Err  error
}

func New(kind Kind, step string, err error) *Error {
	return &Error{Kind: kind, Step: step, Err: err}
}

func Newf(kind Kind, step string, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Step: step, Err: fmt.Errorf(format, a...)}
}

func (e *Error) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s [step=%s]: %v", e.Kind, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As reports whether err (or any error it wraps) is a *Error, and if so
// returns it.
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, defaulting to
// the given fallback kind otherwise — used by drivers to classify errors
// returned by collaborators that did not wrap them in a *Error themselves.
func KindOf(err error, fallback Kind) Kind {
	if be, ok := As(err); ok {
		return be.Kind
	}
	return fallback
}
