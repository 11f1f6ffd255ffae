package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

// loggerKey is the context key under which a request-scoped logger travels.
const loggerKey = contextKey("logger")

// NewLogger builds the engine's JSON slog logger.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx returns the context's logger, or slog.Default if none was
// attached. Callers never get nil.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
