package router

import (
	"context"
	"errors"
	"net/http"

	"estatehub/apps/gateway/handlers/bill"
	"estatehub/apps/gateway/handlers/middleware"
	"estatehub/apps/gateway/handlers/payment/vnpay"
	"estatehub/pkg/config"
	"estatehub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
	Vnpay     vnpay.Handler
	Bill      bill.Handler
}

func NewRouter(params Params) {
	server := http.Server{
		Addr: params.Config.GetString("server.port"),
		Handler: cors.New(cors.Options{
			AllowedHeaders:   []string{"*"},
			AllowedOrigins:   params.Config.GetStringSlice("cors.allowed_origins"),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: true,
		}).Handler(newEngine(params)),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Starting application")
				go func() {
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
}

func newEngine(params Params) *gin.Engine {
	r := gin.New()
	baseUrl := "/api/v1"
	api := r.Group(baseUrl)
	api.Use(params.Ctx(), params.AccessLog(), gin.Recovery())

	depositGroup := api.Group("/deposit")
	vnpayGroup := depositGroup.Group("/vnpay")
	{
		vnpayGroup.POST("/create-payment-url", params.Vnpay.CreatePaymentURL)
		vnpayGroup.POST("/create-payment-qr", params.Vnpay.CreatePaymentQR)
		vnpayGroup.POST("/create-bill", params.Vnpay.CreateBill)
		vnpayGroup.GET("/vnpay-return", params.Vnpay.Return)
		vnpayGroup.GET("/vnpay-ipn", params.Vnpay.IPN)
	}
	billGroup := depositGroup.Group("/bills")
	{
		billGroup.GET("", params.Bill.GetListBill)
		billGroup.GET("/:id", params.Bill.GetByIDBill)
	}

	return r
}
