package config

import (
	"context"
	"io"
	"log/slog"
)

// loggerKey stores the run logger in the command context. Exposed through
// LoggerKey so the commands package can retrieve it without importing the
// cli package (which would cycle).
type loggerKey struct{}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any { return loggerKey{} }

// GetLogger retrieves the logger from a command context, with a discard
// logger as the safe fallback.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
