// Package logger wraps go.uber.org/zap behind the small call-site shape
// used throughout this codebase: leveled methods taking a message and
// variadic fields built with Field/StringField/IntField/ErrorField.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper over *zap.Logger.
type Logger struct {
	z *zap.Logger
}

// New builds a Logger at the given level ("debug", "info", "warn", "error")
// with the given encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if encoding == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = encoding

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.z.Sync() }

// With returns a child Logger carrying the given fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

// Field constructs an arbitrary key/value field, deferring to zap's own
// type inference.
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// StringField constructs a string field.
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField constructs an int field.
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// ErrorField constructs the conventional "error" field.
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}
