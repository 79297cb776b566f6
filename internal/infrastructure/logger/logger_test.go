package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	log, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New(ProductionConfig())
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestNewForEnvironment(t *testing.T) {
	log, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestContextHelpers(t *testing.T) {
	base := zap.NewNop()
	ctx := context.Background()

	// No logger attached yet
	assert.NotNil(t, FromContext(ctx))
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSessionID(ctx))

	ctx, enriched := WithRequestID(ctx, base, "req-1")
	assert.NotNil(t, enriched)
	assert.Equal(t, "req-1", GetRequestID(ctx))

	ctx, _ = WithSessionID(ctx, base, "sess-1")
	assert.Equal(t, "sess-1", GetSessionID(ctx))
	assert.NotNil(t, FromContext(ctx))
}
