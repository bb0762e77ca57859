// Package redis contains the live session store backed by Redis.
package redis

import (
	"context"
	"log/slog"

	"warden/config"
	"warden/internal/domain/lifecycle"
	"warden/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Redis client and ties it to the fx lifecycle:
// ping on start, close on stop.
func New(params Params) (*redis.Client, error) {
	if params.Config.Redis == nil {
		return nil, errors.New("redis configuration is missing")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     params.Config.Redis.Addr,
		Password: params.Config.Redis.Password,
		DB:       params.Config.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}

			params.Logger.Info("Connected to Redis", slog.String("addr", params.Config.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
