package services

import (
	"context"
	"log/slog"

	"github.com/finvolt/posting_engine/internal/platform/logging"
)

// BaseService provides logging helpers shared by all services.
type BaseService struct{}

// LogInfo logs an informational message with the context's logger.
func (s *BaseService) LogInfo(ctx context.Context, msg string, args ...any) {
	logging.GetLoggerFromCtx(ctx).Info(msg, args...)
}

// LogWarn logs a warning with the context's logger.
func (s *BaseService) LogWarn(ctx context.Context, msg string, args ...any) {
	logging.GetLoggerFromCtx(ctx).Warn(msg, args...)
}

// LogError logs an error with the context's logger.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, args ...any) {
	logging.GetLoggerFromCtx(ctx).Error(msg, append(args, slog.String("error", err.Error()))...)
}
