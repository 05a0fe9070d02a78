// Package instrument provides factory middlewares and observers that export
// handler construction and job outcomes to Prometheus and OpenTelemetry.
package instrument

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/txix-open/workerinject"
)

const (
	statusOk    = "ok"
	statusError = "error"
)

type Metrics struct {
	constructions        *prometheus.CounterVec
	constructionDuration *prometheus.HistogramVec
	jobs                 *prometheus.CounterVec
	workerErrors         prometheus.Counter
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		constructions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_constructions_total",
			Help:      "Total number of handler constructions by job type and status.",
		}, []string{"job_type", "status"}),
		constructionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_construction_duration_seconds",
			Help:      "Duration of handler construction in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job_type"}),
		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of finished job runs by job type and outcome.",
		}, []string{"job_type", "outcome"}),
		workerErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_errors_total",
			Help:      "Total number of worker errors.",
		}),
	}
}

// Middleware counts and times every handler construction.
func (m *Metrics) Middleware() workerinject.FactoryMiddleware {
	return func(typeName string, next workerinject.Factory) workerinject.Factory {
		return workerinject.FactoryFunc(func(ctx context.Context, job workerinject.Job) (workerinject.Handler, error) {
			start := time.Now()
			handler, err := next.Create(ctx, job)
			m.constructionDuration.WithLabelValues(typeName).Observe(time.Since(start).Seconds())
			status := statusOk
			if err != nil {
				status = statusError
			}
			m.constructions.WithLabelValues(typeName, status).Inc()
			return handler, err
		})
	}
}

func (m *Metrics) Observer() workerinject.Observer {
	return metricsObserver{metrics: m}
}

type metricsObserver struct {
	workerinject.NoopObserver
	metrics *Metrics
}

func (o metricsObserver) JobCompleted(ctx context.Context, job workerinject.Job) {
	o.metrics.jobs.WithLabelValues(job.Type, "completed").Inc()
}

func (o metricsObserver) JobRescheduled(ctx context.Context, job workerinject.Job, after time.Duration) {
	o.metrics.jobs.WithLabelValues(job.Type, "rescheduled").Inc()
}

func (o metricsObserver) JobWillBeRetried(ctx context.Context, job workerinject.Job, after time.Duration, err error) {
	o.metrics.jobs.WithLabelValues(job.Type, "retried").Inc()
}

func (o metricsObserver) JobMovedToDlq(ctx context.Context, job workerinject.Job, err error) {
	o.metrics.jobs.WithLabelValues(job.Type, "dlq").Inc()
}

func (o metricsObserver) WorkerError(ctx context.Context, err error) {
	o.metrics.workerErrors.Inc()
}
