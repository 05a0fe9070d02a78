package workerinject

import (
	"context"
)

// Factory builds one Handler per call. ctx is the application-wide context
// the worker was started with, job is the per-job parameter bundle.
// Both are borrowed for the duration of Create and must not be retained.
type Factory interface {
	Create(ctx context.Context, job Job) (Handler, error)
}

type FactoryFunc func(ctx context.Context, job Job) (Handler, error)

func (f FactoryFunc) Create(ctx context.Context, job Job) (Handler, error) {
	return f(ctx, job)
}

// FactoryMiddleware decorates the factory registered under typeName.
type FactoryMiddleware func(typeName string, next Factory) Factory

// Chain wraps factory with middlewares, the first one being the outermost.
func Chain(typeName string, factory Factory, middlewares ...FactoryMiddleware) Factory {
	for i := len(middlewares) - 1; i >= 0; i-- {
		factory = middlewares[i](typeName, factory)
	}
	return factory
}
