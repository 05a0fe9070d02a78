package workerinject

import (
	"errors"
	"fmt"
)

var (
	ErrQueueIsRequired = errors.New("queue is required")
	ErrTypeIsRequired  = errors.New("type is required")
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrJobAlreadyExist = errors.New("job already exist")

	ErrUnknownType   = errors.New("unknown type")
	ErrNilFactory    = errors.New("factory is nil")
	ErrDuplicateType = errors.New("type already provided")
	ErrNilHandler    = errors.New("factory returned nil handler")
)

// ConstructionError reports that the factory registered for Type could not
// build a handler. Err is kept as is, so errors.Is and errors.As see the
// original fault.
type ConstructionError struct {
	Type string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct handler for type %q: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
