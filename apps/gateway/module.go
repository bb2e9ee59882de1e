package gateway

import (
	"estatehub/apps/gateway/handlers"

	"go.uber.org/fx"
)

var Module = fx.Options(
	handlers.Module,
)
