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

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNew_LevelIsApplied(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestWithHelpers_ReturnNewLoggers(t *testing.T) {
	base := NewNop()

	assert.NotSame(t, base, base.WithField("k", "v"))
	assert.NotSame(t, base, base.WithFields(map[string]interface{}{"a": 1}))
	assert.NotSame(t, base, base.WithError(errors.New("boom")))
}

func TestForMember_AddsMemberFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := &Logger{Logger: zap.New(core)}

	base.ForMember("a@x.com", "sk_1").Info("Syncing Skool member")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "a@x.com", fields["email"])
	assert.Equal(t, "sk_1", fields["skool_id"])
}
