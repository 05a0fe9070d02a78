package workerinject

import (
	"context"
)

// Mux routes jobs to handlers registered up front, one shared handler per type.
// It is the default construction path behind a Dispatcher.
type Mux struct {
	data map[string]Handler
}

func NewMux() *Mux {
	return &Mux{
		data: make(map[string]Handler),
	}
}

func (m *Mux) Register(jobType string, handler Handler) *Mux {
	m.data[jobType] = handler
	return m
}

func (m *Mux) Lookup(jobType string) (Handler, bool) {
	handler, ok := m.data[jobType]
	return handler, ok
}

func (m *Mux) Handle(ctx context.Context, job Job) Result {
	handler, ok := m.Lookup(job.Type)
	if !ok {
		return MoveToDlq(ErrUnknownType)
	}
	return handler.Handle(ctx, job)
}
