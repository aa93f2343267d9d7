// Package logging wraps zap with the structured-JSON-plus-redaction
// contract the ingest/worker pipeline promises: secret-shaped keys and
// phone-shaped values never reach the log sink unmasked.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Logger is a thin wrapper around *zap.SugaredLogger that routes every
// field through the redaction core before it is encoded. Call sites pass
// alternating key/value pairs; the sugared layer turns those into fields
// which still flow through redactingCore at the base zap.Logger.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a Logger for the given app environment and minimum level.
// mode selects zap's production or development encoder config (both are
// encoded as JSON);
// level is one of fatal/error/warn/info/debug/trace (trace maps to debug,
// zap has no dedicated trace level).
func New(mode string, level string) *Logger {
	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder

	if mode == ModeProduction {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	base := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zapLevel(level))
	return &Logger{z: zap.New(&redactingCore{Core: base}, zap.AddCaller()).Sugar()}
}

func zapLevel(level string) zapcore.Level {
	switch level {
	case "fatal":
		return zapcore.FatalLevel
	case "error":
		return zapcore.ErrorLevel
	case "warn":
		return zapcore.WarnLevel
	case "debug", "trace":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child logger carrying the given alternating key/value
// pairs on every subsequent call.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{z: l.z.With(keysAndValues...)}
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) { l.z.Debugw(msg, keysAndValues...) }
func (l *Logger) Infow(msg string, keysAndValues ...interface{})  { l.z.Infow(msg, keysAndValues...) }
func (l *Logger) Warnw(msg string, keysAndValues ...interface{})  { l.z.Warnw(msg, keysAndValues...) }
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) { l.z.Errorw(msg, keysAndValues...) }

func (l *Logger) Sync() error { return l.z.Sync() }
