package engine

import "github.com/sboussekeyt/spring-batch-rs/batcherr"

// SkipPolicy decides whether a given error should be skipped (counted and
// the step continued) or should terminate the step. The default policy
// treats every skippable-by-kind error (ReadError, ProcessError, WriteError)
// as skippable, subject to a cumulative limit shared across all three
// categories.
type SkipPolicy interface {
	// ShouldSkip reports whether err is a candidate for skipping at all,
	// independent of whether the limit has been reached.
	ShouldSkip(err *batcherr.Error) bool
}

// SkipPolicyFunc adapts a plain function to a SkipPolicy.
type SkipPolicyFunc func(err *batcherr.Error) bool

func (f SkipPolicyFunc) ShouldSkip(err *batcherr.Error) bool { return f(err) }

// defaultSkipPolicy skips any error whose Kind reports Skippable() == true.
type defaultSkipPolicy struct{}

func (defaultSkipPolicy) ShouldSkip(err *batcherr.Error) bool {
	return err.Kind.Skippable()
}

// DefaultSkipPolicy is the policy used when a chunk step is built without an
// explicit one.
var DefaultSkipPolicy SkipPolicy = defaultSkipPolicy{}

// skipAccounting tracks the cumulative skip count against a configured
// limit, shared across read/process/write categories as required by the
// sum-across-categories skip-limit evaluation.
type skipAccounting struct {
	limit int
	count int
}

func newSkipAccounting(limit int) *skipAccounting {
	return &skipAccounting{limit: limit}
}

// recordSkip increments the cumulative count and reports whether the step is
// now over its limit. This is an over-limit-after-increment check: limit=0
// means the first skippable error already exceeds it.
func (s *skipAccounting) recordSkip() (overLimit bool) {
	s.count++
	return s.count > s.limit
}
