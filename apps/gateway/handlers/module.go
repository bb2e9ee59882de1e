package handlers

import (
	"estatehub/apps/gateway/handlers/bill"
	"estatehub/apps/gateway/handlers/middleware"
	"estatehub/apps/gateway/handlers/payment/vnpay"

	"go.uber.org/fx"
)

var Module = fx.Options(
	middleware.Module,
	bill.Module,
	vnpay.Module,
)
