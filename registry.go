package workerinject

import (
	"context"
	"fmt"
	"sort"
)

type RegistryOption func(r *Registry)

// WithMiddlewares decorates every registered factory once, when the
// registry is built.
func WithMiddlewares(middlewares ...FactoryMiddleware) RegistryOption {
	return func(r *Registry) {
		r.middlewares = append(r.middlewares, middlewares...)
	}
}

// Registry resolves a job type name to a freshly built Handler.
// It is read-only after NewRegistry and safe for concurrent use.
type Registry struct {
	factories   map[string]Factory
	middlewares []FactoryMiddleware
}

// NewRegistry panics if factories is nil, contains an empty type name
// or a nil factory. The map is copied, later changes to it are not seen.
func NewRegistry(factories map[string]Factory, opts ...RegistryOption) *Registry {
	if factories == nil {
		panic("workerinject: factories map is nil")
	}

	r := &Registry{
		factories: make(map[string]Factory, len(factories)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for typeName, factory := range factories {
		if typeName == "" {
			panic("workerinject: empty type name in factories map")
		}
		if isNilFactory(factory) {
			panic(fmt.Sprintf("workerinject: nil factory for type %q", typeName))
		}
		r.factories[typeName] = Chain(typeName, safeFactory{next: factory}, r.middlewares...)
	}

	return r
}

// Resolve builds a handler for typeName using the registered factory.
// If no factory is registered it returns false and a nil error,
// the caller is expected to fall back to its own construction path.
// Any factory failure, including a panic or a nil handler, is returned
// as *ConstructionError.
func (r *Registry) Resolve(ctx context.Context, typeName string, job Job) (Handler, bool, error) {
	if ctx == nil {
		panic("workerinject: nil context passed to Resolve")
	}

	factory, ok := r.factories[typeName]
	if !ok {
		return nil, false, nil
	}

	handler, err := create(ctx, factory, job)
	if err != nil {
		return nil, true, &ConstructionError{Type: typeName, Err: err}
	}
	if handler == nil {
		return nil, true, &ConstructionError{Type: typeName, Err: ErrNilHandler}
	}

	return handler, true, nil
}

func (r *Registry) Has(typeName string) bool {
	_, ok := r.factories[typeName]
	return ok
}

// Types returns registered type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for typeName := range r.factories {
		types = append(types, typeName)
	}
	sort.Strings(types)
	return types
}

func isNilFactory(factory Factory) bool {
	if factory == nil {
		return true
	}
	f, ok := factory.(FactoryFunc)
	return ok && f == nil
}

// safeFactory sits under the middleware chain, so middlewares see
// panics and nil handlers as ordinary errors.
type safeFactory struct {
	next Factory
}

func (f safeFactory) Create(ctx context.Context, job Job) (Handler, error) {
	handler, err := create(ctx, f.next, job)
	if err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	return handler, nil
}

func create(ctx context.Context, factory Factory, job Job) (handler Handler, err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		handler = nil
		if e, ok := recovered.(error); ok {
			err = fmt.Errorf("panic: %w", e)
			return
		}
		err = fmt.Errorf("panic: %v", recovered)
	}()

	return factory.Create(ctx, job)
}
