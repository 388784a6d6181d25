package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/config"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// Module provides the tracking cache selected by configuration.
var Module = fx.Provide(newTrackingCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newTrackingCache(p cacheParams) repository.TrackingCache {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("tracking cache disabled")
		return Nop{}
	}

	client := redis.NewClient(&redis.Options{Addr: p.Config.RedisAddr})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			p.Logger.Info("redis connection established", slog.String("addr", p.Config.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisTracking(client, p.Config.TrackingCacheTTL)
}
