// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/labdesk and cmd/labdesk-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"labdesk/internal/config"
	"labdesk/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configured level and
// format and installs it as the slog default. An unknown level falls back
// to info; Validate reports it.
func SetupLogger(cfg *config.Config, component string, out io.Writer) *log.Logger {
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// Init loads .env and the environment, sets up logging and validates the
// configuration.
func Init(component string) (*config.Config, *log.Logger, error) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			"error_type", log.ErrorTypeConfiguration,
			log.FieldError, err)
		return nil, nil, err
	}
	return cfg, logger, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The
// returned stop func releases the signal handler.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// Shutdown runs fn with a fresh context bounded by timeout, so cleanup still
// gets time after the signal context is gone.
func Shutdown(logger *log.Logger, timeout time.Duration, name string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		logger.Error("Shutdown failed", "target", name, log.FieldError, err)
		return fmt.Errorf("shutdown %s: %w", name, err)
	}
	logger.Info("Shutdown complete", "target", name, log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}
