package workerinject

import (
	"context"
)

type DispatcherOption func(d *Dispatcher)

// WithFallback sets the handler used for job types the registry does not know.
func WithFallback(handler Handler) DispatcherOption {
	return func(d *Dispatcher) {
		d.fallback = handler
	}
}

// WithConstructionFailure overrides the result for jobs whose handler could not be built.
// Default is MoveToDlq.
func WithConstructionFailure(f func(job Job, err error) Result) DispatcherOption {
	return func(d *Dispatcher) {
		d.onConstructionFailure = f
	}
}

// Dispatcher is a Handler that builds a fresh handler for every job
// through the Registry.
type Dispatcher struct {
	registry              *Registry
	fallback              Handler
	onConstructionFailure func(job Job, err error) Result
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	if registry == nil {
		panic("workerinject: registry is nil")
	}
	d := &Dispatcher{
		registry: registry,
		onConstructionFailure: func(job Job, err error) Result {
			return MoveToDlq(err)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Handle(ctx context.Context, job Job) Result {
	handler, ok, err := d.registry.Resolve(ctx, job.Type, job)
	if err != nil {
		return d.onConstructionFailure(job, err)
	}
	if !ok {
		if d.fallback == nil {
			return MoveToDlq(ErrUnknownType)
		}
		return d.fallback.Handle(ctx, job)
	}
	return handler.Handle(ctx, job)
}
