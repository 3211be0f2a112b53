// Package logging builds the zap logger used by the certgen CLI.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger flavour.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// JSON emits production-style JSON lines instead of console output.
	JSON bool
	// Output redirects log lines; stderr when nil.
	Output io.Writer
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.JSON {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if opts.Output != nil {
		var encoder zapcore.Encoder
		if opts.JSON {
			encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
		} else {
			config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
			encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(opts.Output), config.Level)
		return zap.New(core), nil
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}

// Sync flushes logger, ignoring the errors stderr/stdout report on some
// platforms.
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
