package logger

import (
	"context"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
)

type logCtxKey struct{}

var logCtx logCtxKey

// ID identifies every line written while serving one request.
type ID [8]byte

func (lid ID) String() string {
	return hex.EncodeToString(lid[:])
}

func (lid ID) IsValid() bool {
	return lid != (ID{})
}

type logContext struct {
	StartTime     time.Time
	RequestID     string
	OperationName string
	LogID         ID
}

func fromContext(ctx context.Context) (*logContext, bool) {
	if ctx == nil {
		return nil, false
	}
	lgCtx, ok := ctx.Value(logCtx).(*logContext)
	return lgCtx, ok && lgCtx != nil
}

// derive copies the parent's ids so request id and log id survive nesting.
func (lgCtx *logContext) derive() logContext {
	if lgCtx == nil {
		return logContext{StartTime: time.Now()}
	}
	return logContext{
		StartTime: time.Now(),
		RequestID: lgCtx.RequestID,
		LogID:     lgCtx.LogID,
	}
}

func (lgCtx *logContext) ToFields() []zap.Field {
	if lgCtx == nil {
		return nil
	}

	attrs := make([]zap.Field, 0, 2)
	attrs = append(attrs, zap.String(logIDKey, lgCtx.LogID.String()))

	if lgCtx.RequestID != "" {
		attrs = append(attrs, zap.String(requestKey, lgCtx.RequestID))
	}
	return attrs
}
