package postgres

import (
	billrepo "estatehub/pkg/repository/postgres/bill_repo"

	"go.uber.org/fx"
)

var Module = fx.Options(
	billrepo.Module,
)
