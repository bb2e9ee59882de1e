package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func (l *logger) Context(ctx context.Context) context.Context {
	if _, ok := fromContext(ctx); ok {
		return ctx
	}

	lgCtx := (*logContext)(nil).derive()
	lgCtx.LogID = l.idGenerator.NewLogID(ctx)
	return context.WithValue(ctx, logCtx, &lgCtx)
}

func (l *logger) ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	lgCtx := l.derive(ctx)
	lgCtx.RequestID = requestID
	return context.WithValue(ctx, logCtx, &lgCtx)
}

func (l *logger) ContextWithCapture(ctx context.Context, operationName string) (context.Context, Capture) {
	lgCtx := l.derive(ctx)
	lgCtx.OperationName = operationName
	ctx = context.WithValue(ctx, logCtx, &lgCtx)

	return ctx, l.captureContext(&lgCtx)
}

// derive starts a child log context, minting a log id when ctx has none.
func (l *logger) derive(ctx context.Context) logContext {
	parent, ok := fromContext(ctx)
	lgCtx := parent.derive()
	if !ok {
		lgCtx.LogID = l.idGenerator.NewLogID(ctx)
	}
	return lgCtx
}

func (l *logger) captureContext(lgCtx *logContext) Capture {
	return func(attrs ...zap.Field) {
		attrs = append(attrs, lgCtx.ToFields()...)
		l.lg.Info(lgCtx.OperationName,
			append(attrs, zap.String(durationKey, time.Since(lgCtx.StartTime).String()))...,
		)
	}
}

func (l *logger) Debug(ctx context.Context, log string, fields ...zapcore.Field) {
	l.lg.Debug(log, withAttrs(ctx, fields)...)
}

func (l *logger) Info(ctx context.Context, log string, fields ...zapcore.Field) {
	l.lg.Info(log, withAttrs(ctx, fields)...)
}

func (l *logger) Warn(ctx context.Context, log string, fields ...zapcore.Field) {
	l.lg.Warn(log, withAttrs(ctx, fields)...)
}

func (l *logger) Error(ctx context.Context, log string, fields ...zapcore.Field) {
	l.lg.Error(log, withAttrs(ctx, fields)...)
}
