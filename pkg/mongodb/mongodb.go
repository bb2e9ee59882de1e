package mongodb

import (
	"context"
	"time"

	"estatehub/pkg/config"
	"estatehub/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

type Params struct {
	fx.In
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
}

// New connects to MongoDB when mongo.enabled is set. A nil database means
// the audit log is disabled.
func New(p Params) (*mongo.Database, error) {
	ctx := context.Background()
	if !p.Config.GetBool("mongo.enabled") {
		p.Logger.Info(ctx, "mongo disabled")
		return nil, nil
	}

	clientOptions := options.Client().
		ApplyURI(p.Config.GetString("mongo.uri")).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		p.Logger.Error(ctx, "mongo connect failed", zap.Error(err))
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	p.Logger.Info(ctx, "mongo client initialized")
	return client.Database(p.Config.GetString("mongo.database")), nil
}
