package logger

import (
	"context"

	"go.uber.org/zap"
)

const (
	logIDKey    = "logID"
	durationKey = "duration"
	requestKey  = "request"
)

func withAttrs(ctx context.Context, fields []zap.Field) []zap.Field {
	lgCtx, ok := fromContext(ctx)
	if !ok {
		return fields
	}
	return append(fields, lgCtx.ToFields()...)
}

// LogID returns the log id carried by ctx, or "" when none.
func LogID(ctx context.Context) string {
	if lgCtx, ok := fromContext(ctx); ok {
		return lgCtx.LogID.String()
	}
	return ""
}

// RequestID returns the request id carried by ctx, or "" when none.
func RequestID(ctx context.Context) string {
	if lgCtx, ok := fromContext(ctx); ok {
		return lgCtx.RequestID
	}
	return ""
}
