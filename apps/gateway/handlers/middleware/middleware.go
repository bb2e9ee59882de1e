package middleware

import (
	"estatehub/pkg/logger"
	"estatehub/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

var (
	Module = fx.Provide(NewMiddleware)
)

type (
	Middleware interface {
		Ctx() gin.HandlerFunc
		AccessLog() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger logger.Logger
	}

	mw struct {
		logger logger.Logger
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger: params.Logger,
	}
}

// Ctx attaches a log id and the request id to the request context and echoes
// the request id back to the caller.
func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if utils.StrEmpty(requestID) {
			requestID = ksuid.New().String()
		}

		ctx := m.logger.Context(c.Request.Context())
		ctx = m.logger.ContextWithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func (m *mw) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, capture := m.logger.ContextWithCapture(c.Request.Context(), "http request")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		capture(
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("clientIP", ClientIP(c)),
		)
	}
}

// ClientIP prefers the first X-Forwarded-For entry over gin's resolution.
func ClientIP(c *gin.Context) string {
	if ip := utils.FirstForwardedFor(c.GetHeader("X-Forwarded-For")); ip != "" {
		return ip
	}
	return c.ClientIP()
}
