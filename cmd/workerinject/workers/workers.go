// Package workers holds the job handlers served by the workerinject command.
package workers

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/txix-open/workerinject"
	"go.uber.org/zap"
)

const (
	GreetType = "greet"
	PingType  = "ping"
)

var errNoGreeter = errors.New("greeter is not configured")

type Greeter interface {
	Greet(name string) string
}

type prefixGreeter struct {
	prefix string
}

func NewGreeter(prefix string) Greeter {
	return prefixGreeter{prefix: prefix}
}

func (g prefixGreeter) Greet(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "stranger"
	}
	return fmt.Sprintf("%s, %s", g.prefix, name)
}

// Greet is built per job with its collaborators injected.
type Greet struct {
	greeter Greeter
	logger  *zap.Logger
	jobId   string
}

func NewGreetFactory(greeter Greeter, logger *zap.Logger) workerinject.Factory {
	return workerinject.FactoryFunc(func(ctx context.Context, job workerinject.Job) (workerinject.Handler, error) {
		if greeter == nil {
			return nil, errNoGreeter
		}
		return &Greet{
			greeter: greeter,
			logger:  logger,
			jobId:   job.Id,
		}, nil
	})
}

func (g *Greet) Handle(ctx context.Context, job workerinject.Job) workerinject.Result {
	g.logger.Info(g.greeter.Greet(string(job.Arg)), zap.String("job_id", g.jobId))
	return workerinject.Complete()
}

// Module lists every handler built through the registry.
func Module(greeter Greeter, logger *zap.Logger) *workerinject.Module {
	return workerinject.NewModule().
		Provide(GreetType, NewGreetFactory(greeter, logger))
}

// Fallback serves the job types that need no collaborators.
func Fallback(logger *zap.Logger) *workerinject.Mux {
	ping := workerinject.HandlerFunc(func(ctx context.Context, job workerinject.Job) workerinject.Result {
		logger.Info("pong", zap.String("job_id", job.Id))
		return workerinject.Complete()
	})
	return workerinject.NewMux().Register(PingType, ping)
}
