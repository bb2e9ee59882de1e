package internal

import (
	"estatehub/internal/bill"
	"estatehub/internal/payment/vnpay"

	"go.uber.org/fx"
)

var Module = fx.Options(
	bill.Module,
	vnpay.Module,
)
