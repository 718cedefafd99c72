package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/planledger/pkg/config"
)

// NewLocker returns a Redis lock when redis.url is configured and an in-process
// lock otherwise.
func NewLocker(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *cfgpkg.Config) (Locker, error) {
	if cfg.Redis.URL == "" {
		l.Warnw("redis.url is empty, using in-process document lock")
		return NewLocal(), nil
	}
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				return fmt.Errorf("failed to ping redis: %w", err)
			}
			l.Infow("redis connection established", "addr", opt.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis connection")
			return client.Close()
		},
	})
	return NewRedis(client, cfg.Redis.LockTTL), nil
}

var Module = fx.Options(
	fx.Provide(NewLocker),
)
