package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"labdesk/internal/amqp"
	"labdesk/internal/cache"
	"labdesk/internal/cli"
	"labdesk/internal/grid"
	apphttp "labdesk/internal/http"
	"labdesk/internal/log"
	"labdesk/internal/metrics"
	"labdesk/internal/services"
	"labdesk/internal/store/memory"
)

const cacheSweepInterval = time.Minute

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := cli.Init(log.ComponentApp)
	if err != nil {
		return err
	}

	m := metrics.New()
	st := memory.New(loadDataset(logger, m), cfg.SimulatedLatency)

	var publisher services.Publisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Ledger events are best effort; the dashboard works without them.
			logger.Warn("AMQP unavailable, ledger events disabled",
				"error_type", log.ErrorTypeNetwork,
				log.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
		}
	}
	svc := services.NewLabService(st, publisher, logger,
		services.WithEventRecorder(m),
		services.WithAnomalyRecorder(m))

	states := cache.NewLRUCache[*grid.State](cfg.GridStateMax, cfg.GridStateTTL)
	caches := cache.NewManager(logger)
	caches.Register("grid_state", states)
	caches.OnSweep(m.CacheExpired)
	caches.StartCleanup(cacheSweepInterval)
	defer caches.Stop()

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:              st,
		Service:            svc,
		Registry:           grid.NewRegistry(states),
		Metrics:            m,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := cli.SignalContext(cmd.Context(), logger)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting labdesk server",
			"port", cfg.Port,
			log.FieldOperation, log.OpStartup,
			"simulated_latency", cfg.SimulatedLatency.String(),
			"ledger_events", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return cli.Shutdown(logger, cfg.ShutdownTimeout, "http server", func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		})
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
