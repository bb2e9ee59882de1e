package repository

import (
	"go.uber.org/fx"

	callbacklogrepo "estatehub/pkg/repository/mongo/callbacklog_repo"
	"estatehub/pkg/repository/postgres"
	pendingrepo "estatehub/pkg/repository/redis/pending_repo"
)

var Module = fx.Options(
	postgres.Module,
	pendingrepo.Module,
	callbacklogrepo.Module,
)
