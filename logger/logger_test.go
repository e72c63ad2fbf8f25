package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "JSON output mode", opts: Options{JSON: true}},
		{name: "Console output mode", opts: Options{Color: true}},
		{name: "Plain console with debug", opts: Options{Verbosity: VerbosityDebug}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				Logger = zap.NewNop().Sugar()
				JSONOutput = false
			})

			err := Initialize(tt.opts)
			require.NoError(t, err)
			require.NotNil(t, Logger)
			assert.Equal(t, tt.opts.JSON, JSONOutput)
			assert.Equal(t, tt.opts.Verbosity >= VerbosityDebug, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(5))
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithCommand(ctx, "predict")

	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{FieldRequestID, "req-1", FieldCommand, "predict"}, fields)
}

func TestLoggerFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core).Sugar()

	ctx := WithRequestID(context.Background(), "req-42")
	LoggerFromContext(ctx, base).Infow("predicted", FieldDayIndex, 6)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields[FieldRequestID])
	assert.EqualValues(t, 6, fields[FieldDayIndex])
}

func TestLoggerFromContext_NilBaseUsesGlobal(t *testing.T) {
	assert.Same(t, Logger, LoggerFromContext(context.Background(), nil))
}

func TestHelpersDoNotPanicBeforeInitialize(t *testing.T) {
	Logger = zap.NewNop().Sugar()

	assert.NotPanics(t, func() {
		Infow("info", FieldCount, 1)
		Warnw("warn")
		Errorw("error", FieldError, "boom")
		Debugw("debug")
		Cleanup()
	})
}
