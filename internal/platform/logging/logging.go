// Package logging builds the structured diagnostic logger shared by commands.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultOutput = "stderr"

// Config selects level and destination of the diagnostic log.
type Config struct {
	// Level is a zap level name such as "debug", "info" or "error".
	Level string
	// Output is a file path, "stderr" or "stdout".
	Output string
	// Service is attached to every entry.
	Service string
}

// New builds a JSON zap logger for cfg.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		parsed, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	output := strings.TrimSpace(cfg.Output)
	if output == "" {
		output = defaultOutput
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{output}
	zcfg.ErrorOutputPaths = []string{output}
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if service := strings.TrimSpace(cfg.Service); service != "" {
		logger = logger.With(zap.String("service", service))
	}
	return logger, nil
}
