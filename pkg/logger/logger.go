package logger

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"estatehub/pkg/config"
)

const serviceName = "estatehub-deposit"

type Capture func(attrs ...zap.Field)

type Logger interface {
	Context(ctx context.Context) context.Context
	ContextWithRequestID(ctx context.Context, requestID string) context.Context
	ContextWithCapture(ctx context.Context, operationName string) (context.Context, Capture)

	Debug(ctx context.Context, log string, fields ...zapcore.Field)
	Info(ctx context.Context, log string, fields ...zapcore.Field)
	Warn(ctx context.Context, log string, fields ...zapcore.Field)
	Error(ctx context.Context, log string, fields ...zapcore.Field)
}

var Module = fx.Provide(func(cfg config.IConfig) Logger {
	return New(cfg.GetString("log.level"))
})

// New constructs a JSON logger writing to stdout.
func New(level string) Logger {
	return newWithCore(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.Lock(os.Stdout),
		getLevel(level),
	))
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() Logger {
	return newWithCore(zapcore.NewNopCore())
}

// NewWithCore builds a logger on top of an arbitrary core, e.g. an observer in tests.
func NewWithCore(core zapcore.Core) Logger {
	return newWithCore(core)
}

func newWithCore(core zapcore.Core) *logger {
	// AddCallerSkip skips the wrapper frame
	log := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("service", serviceName))

	return &logger{
		lg:          log,
		idGenerator: defaultIDGenerator(),
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.FunctionKey = "func"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

type logger struct {
	lg          *zap.Logger
	idGenerator IDGenerator
}

func getLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warning", "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
