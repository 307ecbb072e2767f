package internal

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	l, _ = zap.NewProduction(zap.AddStacktrace(zapcore.FatalLevel))
)

// UseLogger replaces the package logger
func UseLogger(logger *zap.Logger) {
	l = logger
}

func Logger() *zap.Logger {
	return l
}

// NewLogger builds a production logger, at debug level when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
}
