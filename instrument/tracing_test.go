package instrument_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/txix-open/workerinject"
	"github.com/txix-open/workerinject/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	require := require.New(t)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	registry := newRegistry(instrument.Tracing(provider.Tracer("test")))

	_, _, err := registry.Resolve(context.Background(), "SyncWorker", workerinject.Job{Id: "1", Queue: "q", Attempt: 1})
	require.NoError(err)
	_, _, err = registry.Resolve(context.Background(), "UploadWorker", workerinject.Job{Id: "2"})
	require.Error(err)
	_, _, err = registry.Resolve(context.Background(), "UnknownWorker", workerinject.Job{Id: "3"})
	require.NoError(err)

	spans := recorder.Ended()
	require.Len(spans, 2)

	require.Equal("workerinject.create_handler", spans[0].Name())
	require.Equal(codes.Ok, spans[0].Status().Code)
	require.Contains(spans[0].Attributes(), attribute.String("job.type", "SyncWorker"))
	require.Contains(spans[0].Attributes(), attribute.String("job.id", "1"))
	require.Contains(spans[0].Attributes(), attribute.Int("job.attempt", 1))

	require.Equal(codes.Error, spans[1].Status().Code)
	require.Equal("missing collaborator", spans[1].Status().Description)
	require.Contains(spans[1].Attributes(), attribute.String("job.type", "UploadWorker"))
	require.Len(spans[1].Events(), 1)
}
