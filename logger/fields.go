package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across barista.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldCommand   = "command"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation  = "operation"
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and files
	FieldCount = "count"
	FieldPath  = "path"

	// Domain
	FieldDayIndex    = "day_index"
	FieldCupsSold    = "cups_sold"
	FieldPrediction  = "prediction"
	FieldItem        = "item"
	FieldTaste       = "taste"
	FieldTemperature = "temperature"
	FieldDistance    = "distance"
	FieldRank        = "rank"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	commandKey   contextKey = "logger_command"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithCommand adds the CLI command name to the context for logging
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if ctx == nil {
		return fields
	}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if command, ok := ctx.Value(commandKey).(string); ok && command != "" {
		fields = append(fields, FieldCommand, command)
	}

	return fields
}

// LoggerFromContext returns base with the fields carried by ctx attached.
// A nil base falls back to the global Logger.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	store := sales.NewCSVStore(path, logger.ComponentLogger("sales"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
