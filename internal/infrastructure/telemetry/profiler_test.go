package telemetry

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseProfileTypes(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		types, err := ParseProfileTypes(nil)
		require.NoError(t, err)
		assert.Contains(t, types, pyroscope.ProfileCPU)
		assert.Contains(t, types, pyroscope.ProfileInuseSpace)
	})

	t.Run("names are case-insensitive", func(t *testing.T) {
		types, err := ParseProfileTypes([]string{"CPU", " goroutines ", "mutex_count"})
		require.NoError(t, err)
		assert.Equal(t, []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
		}, types)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseProfileTypes([]string{"cpu", "wall"})
		assert.ErrorContains(t, err, "wall")
	})
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires a server", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "storefront"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("requires an application name", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("rejects unknown profile types", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://localhost:4040",
			ApplicationName: "storefront",
			ProfileTypes:    []string{"heap"},
		}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestLoggerProvider(t *testing.T) {
	t.Run("disabled bridge keeps the logger", func(t *testing.T) {
		lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, lp.IsEnabled())

		base := zap.NewNop()
		assert.Same(t, base, lp.Bridge(base, zapcore.InfoLevel))
		assert.NoError(t, lp.Shutdown(context.Background()))
	})

	t.Run("bridged logger still writes to the base core", func(t *testing.T) {
		provider := sdklog.NewLoggerProvider()
		lp := &LoggerProvider{provider: provider, logger: zap.NewNop(), serviceName: "storefront"}

		core, logs := observer.New(zapcore.DebugLevel)
		bridged := lp.Bridge(zap.New(core), zapcore.WarnLevel)
		bridged.Info("cart updated")
		bridged.Warn("cart storage degraded")

		assert.Equal(t, 2, logs.Len())
		assert.NoError(t, lp.Shutdown(context.Background()))
	})
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	log := zap.New(core).With(zap.String("session_id", "s-1"))
	log.Info("dropped")
	log.Error("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "s-1", entry.ContextMap()["session_id"])
}
