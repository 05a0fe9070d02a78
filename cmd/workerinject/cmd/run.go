package cmd

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/txix-open/workerinject"
	"github.com/txix-open/workerinject/cmd/workerinject/workers"
	"github.com/txix-open/workerinject/config"
	"github.com/txix-open/workerinject/logobserver"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the configured queue and run jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, logger)
	},
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := sql.Open("pgx", cfg.Database.Dsn)
	if err != nil {
		return errors.WithMessage(err, "open db")
	}
	defer db.Close()

	err = db.PingContext(ctx)
	if err != nil {
		return errors.WithMessage(err, "ping db")
	}

	store, err := workerinject.NewPgStore(ctx, db)
	if err != nil {
		return errors.WithMessage(err, "create pg store")
	}

	metrics := newMetrics(cfg.Metrics)
	registry, err := newRegistry(logger, metrics)
	if err != nil {
		return err
	}

	dispatcher := workerinject.NewDispatcher(
		registry,
		workerinject.WithFallback(workers.Fallback(logger)),
	)
	worker := workerinject.NewWorker(
		workerinject.NewClient(store),
		cfg.Worker.Queue,
		dispatcher,
		workerinject.WithConcurrency(cfg.Worker.Concurrency),
		workerinject.WithPollInterval(cfg.Worker.PollInterval),
		workerinject.WithObservers(logobserver.New(logger), metrics.Observer()),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()

	logger.Info(
		"worker started",
		zap.String("queue", cfg.Worker.Queue),
		zap.Int("concurrency", cfg.Worker.Concurrency),
		zap.Strings("injected_types", registry.Types()),
	)
	worker.Run(ctx)

	<-ctx.Done()
	logger.Info("shutting down")
	worker.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
