// Command labdesk-worker consumes ledger events and logs an audit line for
// every booking that ends up overpaid.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"labdesk/internal/amqp"
	"labdesk/internal/cli"
	"labdesk/internal/log"
	"labdesk/internal/metrics"
	"labdesk/internal/worker"
)

func main() {
	cfg, logger, err := cli.Init(log.ComponentWorker)
	if err != nil {
		os.Exit(1)
	}
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the worker", "error_type", log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	logger.Info("Starting labdesk-worker", log.FieldOperation, log.OpStartup, "queue", cfg.AMQPQueue)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error_type", log.ErrorTypeNetwork, log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	m := metrics.New()
	ledger := worker.NewLedgerWorker(logger, m)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	// The worker only exposes /metrics.
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	srv := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.Consume(gctx, ledger.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return cli.Shutdown(logger, cfg.ShutdownTimeout, "metrics server", srv.Shutdown)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
	}

	s := ledger.Summary()
	logger.Info("Worker stopped",
		log.FieldOperation, log.OpShutdown,
		"events", s.Events,
		"overpaid_bookings", len(s.Overpaid),
		"stale", s.Stale)
}
