package cmd

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/txix-open/workerinject"
	"github.com/txix-open/workerinject/cmd/workerinject/workers"
	"github.com/txix-open/workerinject/config"
	"github.com/txix-open/workerinject/instrument"
	"github.com/txix-open/workerinject/logobserver"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	tracerName    = "github.com/txix-open/workerinject"
	greetingWords = "Hello"
)

func newLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, errors.WithMessage(err, "parse log level")
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, errors.WithMessage(err, "build logger")
	}
	return logger, nil
}

func newRegistry(logger *zap.Logger, metrics *instrument.Metrics) (*workerinject.Registry, error) {
	factories, err := workers.Module(workers.NewGreeter(greetingWords), logger).Build()
	if err != nil {
		return nil, errors.WithMessage(err, "build worker module")
	}

	middlewares := []workerinject.FactoryMiddleware{
		instrument.Tracing(otel.Tracer(tracerName)),
		logobserver.FactoryLogging(logger),
	}
	if metrics != nil {
		middlewares = append(middlewares, metrics.Middleware())
	}

	return workerinject.NewRegistry(factories, workerinject.WithMiddlewares(middlewares...)), nil
}

func newMetrics(cfg config.Metrics) *instrument.Metrics {
	return instrument.NewMetrics(cfg.Namespace, prometheus.DefaultRegisterer)
}
