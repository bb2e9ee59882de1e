package pkg

import (
	"go.uber.org/fx"

	"estatehub/pkg/cache"
	"estatehub/pkg/config"
	"estatehub/pkg/db"
	"estatehub/pkg/filemanager"
	"estatehub/pkg/logger"
	"estatehub/pkg/migration"
	"estatehub/pkg/mongodb"
	"estatehub/pkg/notifier"
	"estatehub/pkg/redis"
	"estatehub/pkg/reply"
	"estatehub/pkg/repository"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	migration.Module,
	repository.Module,
	db.Module,
	reply.Module,
	cache.Module,
	filemanager.Module,
	notifier.Module,
	redis.Module,
	mongodb.Module,
)
