package di

import (
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/adapter/blob"
	"github.com/zulfalsa/danusan-x/internal/adapter/cache"
	"github.com/zulfalsa/danusan-x/internal/app"
	"github.com/zulfalsa/danusan-x/internal/config"
	"github.com/zulfalsa/danusan-x/internal/logger"
	"github.com/zulfalsa/danusan-x/internal/metrics"
	"github.com/zulfalsa/danusan-x/internal/pkg/auth"
	"github.com/zulfalsa/danusan-x/internal/server/http/handlers"
	"github.com/zulfalsa/danusan-x/internal/server/http/router"
	"github.com/zulfalsa/danusan-x/internal/storage"
	"github.com/zulfalsa/danusan-x/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		blob.Module,
		cache.Module,
		metrics.Module,
		usecase.Module,
		fx.Provide(func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
