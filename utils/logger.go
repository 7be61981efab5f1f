package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled, structured logging throughout the application.
type Logger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// NewLogger builds a JSON production logger. debug lowers the level to DEBUG.
func NewLogger(debug bool) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		base = zap.NewExample()
	}
	return Wrap(base)
}

// NewNopLogger returns a Logger that discards everything. Used by tests.
func NewNopLogger() *Logger {
	return Wrap(zap.NewNop())
}

// Wrap adapts an existing zap logger.
func Wrap(base *zap.Logger) *Logger {
	return &Logger{base: base, sugar: base.Sugar()}
}

// Zap exposes the underlying logger for structured fields.
func (l *Logger) Zap() *zap.Logger { return l.base }

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.base.Sync() }

func (l *Logger) Info(format string, args ...any) { l.sugar.Infof(format, args...) }

func (l *Logger) Warn(format string, args ...any) { l.sugar.Warnf(format, args...) }

func (l *Logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }

func (l *Logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
