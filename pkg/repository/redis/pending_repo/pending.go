package pendingrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatehub/internal/structs"
	"estatehub/pkg/config"
	"estatehub/pkg/logger"
	"estatehub/pkg/redis"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

const keyPrefix = "vnpay.pending."

type (
	Params struct {
		fx.In
		Logger logger.Logger
		Config config.IConfig
		Redis  redis.Client
	}

	// Repo keeps payments between URL creation and the provider callback.
	Repo interface {
		Save(ctx context.Context, p structs.PendingPayment) error
		Get(ctx context.Context, txnRef string) (structs.PendingPayment, error)
		Delete(ctx context.Context, txnRef string) error
	}

	repo struct {
		logger logger.Logger
		redis  redis.Client
		ttl    time.Duration
	}
)

func New(p Params) Repo {
	ttl := p.Config.GetDuration("vnpay.pending_ttl")
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &repo{
		logger: p.Logger,
		redis:  p.Redis,
		ttl:    ttl,
	}
}

func (r *repo) Save(ctx context.Context, p structs.PendingPayment) error {
	ok, err := r.redis.SaveObj(ctx, keyPrefix+p.TxnRef, p, r.ttl)
	if err != nil {
		r.logger.Error(ctx, "failed to save pending payment", zap.Error(err), zap.String("txnRef", p.TxnRef))
		return err
	}
	if !ok {
		return fmt.Errorf("pending payment %s: %w", p.TxnRef, structs.ErrUniqueViolation)
	}
	return nil
}

func (r *repo) Get(ctx context.Context, txnRef string) (structs.PendingPayment, error) {
	var p structs.PendingPayment
	err := r.redis.FindObj(ctx, keyPrefix+txnRef, &p)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return structs.PendingPayment{}, structs.ErrNotFound
		}
		r.logger.Error(ctx, "failed to get pending payment", zap.Error(err), zap.String("txnRef", txnRef))
		return structs.PendingPayment{}, err
	}
	return p, nil
}

func (r *repo) Delete(ctx context.Context, txnRef string) error {
	return r.redis.Delete(ctx, keyPrefix+txnRef)
}
