package callbacklogrepo

import (
	"context"

	"estatehub/internal/structs"
	"estatehub/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

const collectionLog = "payment_log"

type (
	Params struct {
		fx.In
		Logger   logger.Logger
		Database *mongo.Database `optional:"true"`
	}

	Repo interface {
		Write(ctx context.Context, entry structs.CallbackLog) error
	}

	repo struct {
		logger     logger.Logger
		collection *mongo.Collection
	}

	nopRepo struct{}
)

func New(p Params) Repo {
	if p.Database == nil {
		return nopRepo{}
	}
	return &repo{
		logger:     p.Logger,
		collection: p.Database.Collection(collectionLog),
	}
}

func (r *repo) Write(ctx context.Context, entry structs.CallbackLog) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		r.logger.Error(ctx, "failed to write callback log", zap.Error(err), zap.String("txnRef", entry.TxnRef))
		return err
	}
	return nil
}

func (nopRepo) Write(context.Context, structs.CallbackLog) error { return nil }
