// Package logger provides structured logging (go.uber.org/zap) with the
// minimal config surface the gateway needs: level, encoding, and output
// destination. There is no log-shipping or rotation policy here — that
// enumerated "logging configuration" subsystem is explicitly out of
// scope (spec.md §1); this is just enough to get structured, leveled
// logs out of the process.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls how the root logger is built.
type Config struct {
	// Level is one of debug/info/warn/error/dpanic/panic/fatal. Default: "info".
	Level string
	// JSON selects JSON encoding over human-readable console encoding.
	// The zero value (false) selects console encoding.
	JSON bool
	// OutputPath is a file path or "stdout"/"stderr". Default: "stdout".
	OutputPath string
}

// New builds a *zap.Logger from Config, applying defaults for zero values.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stdout"
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoding := "console"
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if cfg.JSON {
		encoding = "json"
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	zapConfig := zap.Config{
		Level:            level,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{cfg.OutputPath},
		ErrorOutputPaths: []string{"stderr"},
	}

	built, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return built, nil
}

type contextKey struct{}

var loggerKey = contextKey{}

// WithLogger attaches a logger to ctx for retrieval by FromContext.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger if
// none was attached (never returns nil, so callers can log unconditionally).
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.NewNop()
	}
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithComponent returns a child logger tagged with a "component" field,
// used at package construction time (e.g. logger.WithComponent(base, "fee-engine")).
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	return l.With(zap.String("component", component))
}
