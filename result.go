package workerinject

import (
	"time"
)

// Result tells the Client what to do with a job once its handler returns.
type Result struct {
	complete   bool
	err        error
	moveToDlq  bool
	retry      bool
	retryDelay time.Duration

	reschedule      bool
	rescheduleDelay time.Duration
}

func Complete() Result {
	return Result{complete: true}
}

func Retry(after time.Duration, err error) Result {
	return Result{retry: true, retryDelay: after, err: err}
}

func MoveToDlq(err error) Result {
	return Result{moveToDlq: true, err: err}
}

func Reschedule(after time.Duration) Result {
	return Result{reschedule: true, rescheduleDelay: after}
}

func (r Result) Err() error {
	return r.err
}

func (r Result) errString() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}
