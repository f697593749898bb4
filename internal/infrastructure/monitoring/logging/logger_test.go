package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapFields_TypedConstructors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Info("provider call",
		String("provider", "anthropic"),
		Int("queries", 8),
		Float64("score", 0.42),
		Bool("simulated", true),
		Duration("elapsed", 150*time.Millisecond),
		Err(errors.New("timeout")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "provider call", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "anthropic", fields["provider"])
	assert.Equal(t, int64(8), fields["queries"])
	assert.Equal(t, 0.42, fields["score"])
	assert.Equal(t, true, fields["simulated"])
	assert.Equal(t, "timeout", fields["error"])
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestWith_DoesNotMutateParent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	parent := NewLoggerFromCore(core)
	child := parent.With(String("brand", "Acme"))

	parent.Info("parent entry")
	child.Info("child entry")

	require.Equal(t, 2, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "brand")
	assert.Equal(t, "Acme", logs.All()[1].ContextMap()["brand"])
}

func TestParseLevel_Defaults(t *testing.T) {
	assert.Equal(t, "info", parseLevel("bogus").String())
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "error", parseLevel("ERROR").String())
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	// Must not panic and With/Named must return usable loggers.
	l.With(String("k", "v")).Named("sub").Info("discarded")
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	l.Info("startup")
}
