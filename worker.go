package workerinject

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Handler runs one job. Handlers produced by a Factory are used for a single job only.
type Handler interface {
	Handle(ctx context.Context, job Job) Result
}

type HandlerFunc func(ctx context.Context, job Job) Result

func (h HandlerFunc) Handle(ctx context.Context, job Job) Result {
	return h(ctx, job)
}

// Worker polls one queue and passes every due job to its handler,
// usually a Dispatcher.
type Worker struct {
	cli          *Client
	queue        string
	handler      Handler
	pollInterval time.Duration
	concurrency  int
	wg           *sync.WaitGroup
	observer     Observer
	close        chan struct{}
	closeOnce    sync.Once
}

func NewWorker(cli *Client, queue string, handler Handler, opts ...WorkerOption) *Worker {
	w := &Worker{
		cli:          cli,
		queue:        queue,
		handler:      handler,
		pollInterval: 1 * time.Second,
		concurrency:  1,
		wg:           &sync.WaitGroup{},
		close:        make(chan struct{}),
		observer:     NewNoopObserver(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the polling goroutines and returns immediately.
// ctx is the application context passed down to factories and handlers.
func (w *Worker) Run(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.close:
			return
		case <-ctx.Done():
			return
		default:
		}

		var lastResult Result
		var lastJob Job
		err := w.cli.Do(ctx, w.queue, func(ctx context.Context, job Job) Result {
			w.observer.JobStarted(ctx, job)
			lastResult = w.handler.Handle(ctx, job)
			lastJob = job
			return lastResult
		})
		if err != nil {
			if errors.Is(err, ErrEmptyQueue) {
				w.observer.QueueIsEmpty(ctx)
			} else {
				w.observer.WorkerError(ctx, err)
			}
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		w.notify(ctx, lastJob, lastResult)
	}
}

func (w *Worker) notify(ctx context.Context, job Job, result Result) {
	switch {
	case result.complete:
		w.observer.JobCompleted(ctx, job)
	case result.retry:
		w.observer.JobWillBeRetried(ctx, job, result.retryDelay, result.err)
	case result.moveToDlq:
		w.observer.JobMovedToDlq(ctx, job, result.err)
	case result.reschedule:
		w.observer.JobRescheduled(ctx, job, result.rescheduleDelay)
	}
}

func (w *Worker) sleep(ctx context.Context) bool {
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-w.close:
		return false
	case <-timer.C:
		return true
	}
}

// Shutdown stops polling and waits for running jobs to finish. Safe to call more than once.
func (w *Worker) Shutdown() {
	w.closeOnce.Do(func() {
		close(w.close)
	})
	w.wg.Wait()
}
