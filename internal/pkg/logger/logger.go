// Package logger holds the process-wide zap loggers.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger
	Log = zap.NewNop()
	// SLog is the sugared variant of Log
	SLog = Log.Sugar()
)

// Init builds the global loggers. Development mode logs colored console
// output at debug level; production logs JSON at info level.
func Init(isDev bool) error {
	var cfg zap.Config
	if isDev {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global loggers
func Set(l *zap.Logger) {
	Log = l
	SLog = l.Sugar()
}

// Sync flushes buffered entries
func Sync() error {
	return Log.Sync()
}
