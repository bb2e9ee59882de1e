package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estatehub/pkg/config"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var (
	Module      = fx.Provide(New)
	ErrNotFound = errors.New("not found")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Client stores JSON objects under a shared key prefix.
type Client interface {
	SaveObj(ctx context.Context, key string, value any, dur time.Duration) (bool, error)
	FindObj(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) (err error)
}

type client struct {
	redis  redis.UniversalClient
	prefix string
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.IConfig
}

func New(p Params) (Client, error) {
	var (
		prefix  = p.Config.GetString("redis.prefix")
		timeout = 5 * time.Second
	)

	connOpt := redis.UniversalOptions{
		ClientName:   p.Config.GetString("redis.clientName"),
		Addrs:        p.Config.GetStringSlice("redis.addrs"),
		Username:     p.Config.GetString("redis.username"),
		Password:     p.Config.GetString("redis.password"),
		DB:           p.Config.GetInt("redis.db"),
		PoolSize:     p.Config.GetInt("redis.poolSize"),
		MaxRedirects: p.Config.GetInt("redis.maxRedirects"),
		DialTimeout:  timeout,
	}

	conn := redis.NewUniversalClient(&connOpt)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return conn.Close()
		},
	})

	return NewWithConn(conn, prefix), nil
}

// NewWithConn wraps an existing connection.
func NewWithConn(conn redis.UniversalClient, prefix string) Client {
	return &client{
		redis:  conn,
		prefix: prefix,
	}
}

func (c client) getPrefixedKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + "." + key
}

// SaveObj stores value as JSON only if key is absent. It reports whether the key was set.
func (c client) SaveObj(ctx context.Context, key string, value any, dur time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed to marshal: %w", err)
	}
	ok, err := c.redis.SetNX(ctx, c.getPrefixedKey(key), b, dur).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx: %w", err)
	}
	return ok, nil
}

func (c client) Delete(ctx context.Context, key string) error {
	err := c.redis.Del(ctx, c.getPrefixedKey(key)).Err()
	if err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// FindObj decodes the JSON stored under key into value. Missing keys yield ErrNotFound.
func (c client) FindObj(ctx context.Context, key string, value any) error {
	raw, err := c.redis.Get(ctx, c.getPrefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get key: %w", err)
	}

	if err = json.Unmarshal(raw, value); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}
	return nil
}
