// Package logobserver reports worker activity and factory failures to a zap logger.
package logobserver

import (
	"context"
	"errors"
	"time"

	"github.com/txix-open/workerinject"
	"go.uber.org/zap"
)

type Observer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) Observer {
	return Observer{logger: logger}
}

func (o Observer) JobStarted(ctx context.Context, job workerinject.Job) {
	o.logger.Debug("job started", jobFields(job)...)
}

func (o Observer) JobCompleted(ctx context.Context, job workerinject.Job) {
	o.logger.Debug("job completed", jobFields(job)...)
}

func (o Observer) JobRescheduled(ctx context.Context, job workerinject.Job, after time.Duration) {
	o.logger.Debug("job rescheduled", append(jobFields(job), zap.Duration("after", after))...)
}

func (o Observer) JobWillBeRetried(ctx context.Context, job workerinject.Job, after time.Duration, err error) {
	fields := append(jobFields(job), zap.Duration("after", after), zap.Error(err))
	o.logger.Warn("job will be retried", fields...)
}

func (o Observer) JobMovedToDlq(ctx context.Context, job workerinject.Job, err error) {
	fields := append(jobFields(job), zap.Error(err))
	var constructionErr *workerinject.ConstructionError
	if errors.As(err, &constructionErr) {
		o.logger.Error("handler construction failed, job moved to dlq", fields...)
		return
	}
	o.logger.Error("job moved to dlq", fields...)
}

func (o Observer) QueueIsEmpty(ctx context.Context) {
}

func (o Observer) WorkerError(ctx context.Context, err error) {
	o.logger.Error("worker error", zap.Error(err))
}

// FactoryLogging logs every failed handler construction.
func FactoryLogging(logger *zap.Logger) workerinject.FactoryMiddleware {
	return func(typeName string, next workerinject.Factory) workerinject.Factory {
		return workerinject.FactoryFunc(func(ctx context.Context, job workerinject.Job) (workerinject.Handler, error) {
			handler, err := next.Create(ctx, job)
			if err != nil {
				logger.Error(
					"create handler",
					zap.String("job_type", typeName),
					zap.String("job_id", job.Id),
					zap.Error(err),
				)
			}
			return handler, err
		})
	}
}

func jobFields(job workerinject.Job) []zap.Field {
	return []zap.Field{
		zap.String("job_id", job.Id),
		zap.String("job_type", job.Type),
		zap.String("queue", job.Queue),
		zap.Int32("attempt", job.Attempt),
	}
}
