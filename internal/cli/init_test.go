package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdesk/internal/config"
	"labdesk/internal/log"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	logger := SetupLogger(cfg, log.ComponentWorker, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"worker"`)
	assert.Equal(t, log.ComponentWorker, logger.Component())
}

func TestInit(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	cfg, logger, err := Init(log.ComponentApp)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, "9090", cfg.Port)

	t.Setenv("PORT", "not-a-port")
	_, _, err = Init(log.ComponentApp)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid port"))
}

func TestSignalContextStop(t *testing.T) {
	ctx, stop := SignalContext(context.Background(), log.Discard())
	stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by stop")
	}
}

func TestShutdown(t *testing.T) {
	err := Shutdown(log.Discard(), time.Second, "server", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = Shutdown(log.Discard(), time.Second, "server", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
}
