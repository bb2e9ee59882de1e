package main

import (
	"estatehub/apps/gateway"
	"estatehub/cmd/gateway/router"
	"estatehub/internal"
	"estatehub/pkg"

	"go.uber.org/fx"
)

func main() {
	fx.New(
		gateway.Module,
		router.Module,
		pkg.Module,
		internal.Module,
	).Run()
}
