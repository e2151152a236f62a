package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper around zap.Logger. It always writes to stderr so
// stdout stays free for the plugin status line.
type Logger struct {
	l *zap.Logger
}

func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{l: l}, nil
}

func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// FromZap wraps an existing zap logger, mostly for tests using zaptest/observer.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{l: l}
}

func (c *Logger) Sync() {
	_ = c.l.Sync()
}

func (c *Logger) Debug(msg string, fields ...zap.Field) {
	c.l.Debug(msg, fields...)
}

func (c *Logger) Info(msg string, fields ...zap.Field) {
	c.l.Info(msg, fields...)
}

func (c *Logger) Warn(msg string, fields ...zap.Field) {
	c.l.Warn(msg, fields...)
}

func (c *Logger) Error(msg string, fields ...zap.Field) {
	c.l.Error(msg, fields...)
}

func (c *Logger) WithError(err error) *Logger {
	return &Logger{l: c.l.With(zap.Error(err))}
}

func (c *Logger) WithRunID(id string) *Logger {
	return &Logger{l: c.l.With(zap.String("run_id", id))}
}

func (c *Logger) Component(name string) *Logger {
	return &Logger{l: c.l.With(zap.String("component", name))}
}
