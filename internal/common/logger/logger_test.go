package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestBuild_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := Build(Options{Level: "debug", Format: format, Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestZapWrapper_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	child := log.WithFields(map[string]interface{}{"component": "matching"})
	child.Info("ranked", map[string]interface{}{"count": 3})
	child.WithError(errors.New("boom")).Error("failed", nil)
	log.With(map[string]interface{}{"taskType": "generate-essay"}).Warn("slow", map[string]interface{}{
		"cause": errors.New("deadline"),
	})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "ranked", entries[0].Message)
	assert.Equal(t, "matching", entries[0].ContextMap()["component"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["count"])

	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "deadline", entries[2].ContextMap()["cause"])
	assert.Equal(t, "generate-essay", entries[2].ContextMap()["taskType"])
}

func TestNoOpAndTestLoggers(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoOpLogger().Debug("ignored", map[string]interface{}{"k": "v"})
		NewTestLogger(t).Info("visible in -v", nil)
		NewStructured("info", "console").Info("structured", nil)
	})
}
