package workerinject

import (
	"time"
)

type WorkerOption func(w *Worker)

// WithPollInterval sets the pause after an empty queue or a worker error. Default 1s.
func WithPollInterval(interval time.Duration) WorkerOption {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithConcurrency sets the number of polling goroutines. Default 1.
func WithConcurrency(value int) WorkerOption {
	return func(w *Worker) {
		if value > 0 {
			w.concurrency = value
		}
	}
}

func WithObserver(observer Observer) WorkerOption {
	return func(w *Worker) {
		if observer != nil {
			w.observer = observer
		}
	}
}

func WithObservers(observers ...Observer) WorkerOption {
	return WithObserver(Observers(observers))
}
