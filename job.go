package workerinject

import (
	"time"
)

// Job is the parameter bundle handed to factories and handlers.
// Attempt is already incremented for the current run.
type Job struct {
	Id        string
	Queue     string
	Type      string
	Arg       []byte
	Attempt   int32
	LastError *string
	NextRunAt int64
	CreatedAt time.Time
	UpdatedAt time.Time
	RequestId string
}
