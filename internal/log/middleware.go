package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogListChanged logs a successful list mutation with its resulting budget state.
func (sl *StructuredLogger) LogListChanged(ctx context.Context, op, listID, itemID, totalCost, budget, status string) {
	fields := NewFields().
		WithList(listID, "").
		WithBudget(totalCost, budget, status).
		WithOperation(op).
		WithComponent(ComponentLists)
	if itemID != "" {
		fields = fields.WithItem(itemID)
	}

	sl.logger.InfoContext(ctx, "List updated", fields.ToSlice()...)
}
