package notify

import (
	"context"

	"go.uber.org/zap"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo     Level = "INFO"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// Sink delivers operational notifications. Sends are fire-and-forget from
// the caller's point of view: job code logs a failed send but never fails
// on it.
type Sink interface {
	Send(ctx context.Context, level Level, message string, fields map[string]any) error
}

// LogSink writes notifications to the process log. It is the fallback when
// no webhook is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a Sink backed by logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, level Level, message string, fields map[string]any) error {
	zfields := []zap.Field{zap.String("notifyLevel", string(level))}
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	switch level {
	case LevelError, LevelCritical:
		s.logger.Error(message, zfields...)
	default:
		s.logger.Info(message, zfields...)
	}
	return nil
}

// NopSink discards notifications.
type NopSink struct{}

func (NopSink) Send(context.Context, Level, string, map[string]any) error { return nil }
