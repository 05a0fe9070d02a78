package instrument

import (
	"context"

	"github.com/txix-open/workerinject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const createSpanName = "workerinject.create_handler"

// Tracing records a span around every handler construction.
// The factory still receives the caller's context, not the span context.
func Tracing(tracer trace.Tracer) workerinject.FactoryMiddleware {
	return func(typeName string, next workerinject.Factory) workerinject.Factory {
		return workerinject.FactoryFunc(func(ctx context.Context, job workerinject.Job) (workerinject.Handler, error) {
			_, span := tracer.Start(
				ctx,
				createSpanName,
				trace.WithAttributes(
					attribute.String("job.type", typeName),
					attribute.String("job.id", job.Id),
					attribute.String("job.queue", job.Queue),
					attribute.Int("job.attempt", int(job.Attempt)),
				),
			)
			defer span.End()

			handler, err := next.Create(ctx, job)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return handler, err
			}
			span.SetStatus(codes.Ok, "")
			return handler, nil
		})
	}
}
