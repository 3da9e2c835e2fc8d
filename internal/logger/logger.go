package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality
type Logger struct {
	*zap.Logger
}

type options struct {
	level    zapcore.Level
	encoding string
	outputs  []string
}

// Option configures NewLogger.
type Option func(*options)

// WithLevel sets the minimum level. Unknown names keep the info level.
func WithLevel(level string) Option {
	return func(o *options) {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err == nil {
			o.level = lvl
		}
	}
}

// WithEncoding selects "json" or "console" output.
func WithEncoding(encoding string) Option {
	return func(o *options) {
		switch encoding {
		case "json", "console":
			o.encoding = encoding
		}
	}
}

// WithOutputPaths replaces stdout as the log destination, e.g. "stderr"
// for commands that print their results to stdout.
func WithOutputPaths(paths ...string) Option {
	return func(o *options) {
		if len(paths) > 0 {
			o.outputs = paths
		}
	}
}

// NewLogger creates a new logger instance with production configuration
func NewLogger(opts ...Option) (*Logger, error) {
	o := options{level: zapcore.InfoLevel, encoding: "json", outputs: []string{"stdout"}}
	for _, opt := range opts {
		opt(&o)
	}

	config := zap.NewProductionConfig()

	config.OutputPaths = o.outputs

	// Set the error output to stderr
	config.ErrorOutputPaths = []string{"stderr"}

	config.Level = zap.NewAtomicLevelAt(o.level)
	config.Encoding = o.encoding

	if o.encoding == "console" {
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything. Used by tests and
// as the fallback when a component is built without a logger.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
