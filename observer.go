package workerinject

import (
	"context"
	"time"
)

// Observer is notified by a Worker about every job outcome.
// A handler that could not be built is reported through JobMovedToDlq
// (or JobWillBeRetried, see WithConstructionFailure) with a *ConstructionError.
type Observer interface {
	JobStarted(ctx context.Context, job Job)
	JobCompleted(ctx context.Context, job Job)
	JobRescheduled(ctx context.Context, job Job, after time.Duration)
	JobWillBeRetried(ctx context.Context, job Job, after time.Duration, err error)
	JobMovedToDlq(ctx context.Context, job Job, err error)
	QueueIsEmpty(ctx context.Context)
	WorkerError(ctx context.Context, err error)
}

// NoopObserver can be embedded to implement only the methods you need.
type NoopObserver struct {
}

func (n NoopObserver) JobStarted(ctx context.Context, job Job) {
}

func (n NoopObserver) JobCompleted(ctx context.Context, job Job) {
}

func (n NoopObserver) JobWillBeRetried(ctx context.Context, job Job, after time.Duration, err error) {
}

func (n NoopObserver) JobRescheduled(ctx context.Context, job Job, after time.Duration) {
}

func (n NoopObserver) JobMovedToDlq(ctx context.Context, job Job, err error) {
}

func (n NoopObserver) QueueIsEmpty(ctx context.Context) {
}

func (n NoopObserver) WorkerError(ctx context.Context, err error) {
}

func NewNoopObserver() NoopObserver {
	return NoopObserver{}
}

// Observers fans every notification out to each observer in order.
type Observers []Observer

func (o Observers) JobStarted(ctx context.Context, job Job) {
	for _, observer := range o {
		observer.JobStarted(ctx, job)
	}
}

func (o Observers) JobCompleted(ctx context.Context, job Job) {
	for _, observer := range o {
		observer.JobCompleted(ctx, job)
	}
}

func (o Observers) JobRescheduled(ctx context.Context, job Job, after time.Duration) {
	for _, observer := range o {
		observer.JobRescheduled(ctx, job, after)
	}
}

func (o Observers) JobWillBeRetried(ctx context.Context, job Job, after time.Duration, err error) {
	for _, observer := range o {
		observer.JobWillBeRetried(ctx, job, after, err)
	}
}

func (o Observers) JobMovedToDlq(ctx context.Context, job Job, err error) {
	for _, observer := range o {
		observer.JobMovedToDlq(ctx, job, err)
	}
}

func (o Observers) QueueIsEmpty(ctx context.Context) {
	for _, observer := range o {
		observer.QueueIsEmpty(ctx)
	}
}

func (o Observers) WorkerError(ctx context.Context, err error) {
	for _, observer := range o {
		observer.WorkerError(ctx, err)
	}
}
