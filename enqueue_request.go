package workerinject

import (
	"time"
)

type EnqueueRequest struct {
	Id        string        // generated when empty
	Queue     string        // required
	Type      string        // required, the key a Dispatcher resolves the factory by
	Arg       []byte        // passed to the handler as Job.Arg
	Delay     time.Duration // optional
	RequestId string        // optional, correlates the job with the request that produced it
}
