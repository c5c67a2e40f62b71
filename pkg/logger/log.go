package logger

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Console encoding in
// development, JSON in anything else; APP_ENV selects the mode.
func NewLogger() *zap.Logger {
	env := os.Getenv("APP_ENV")

	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	if env == "production" {
		cfg.Encoding = "json"
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}
