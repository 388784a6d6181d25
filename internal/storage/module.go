package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/config"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
	"github.com/zulfalsa/danusan-x/internal/storage/memory"
	"github.com/zulfalsa/danusan-x/internal/storage/postgres"
)

// Module wires the configured storage driver as repository.Store.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Invoke(registerLifecycle),
)

type closer interface {
	Close()
}

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Store, error) {
	st, err := postgres.New(ctx, dsn, logger)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func newStore(p storeParams) (repository.Store, error) {
	switch p.Config.StorageDriver {
	case config.StorageDriverMemory:
		p.Logger.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case config.StorageDriverPostgres, "":
		return openPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", p.Config.StorageDriver)
	}
}

func registerLifecycle(lc fx.Lifecycle, store repository.Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if c, ok := store.(closer); ok {
				c.Close()
			}
			return nil
		},
	})
}
