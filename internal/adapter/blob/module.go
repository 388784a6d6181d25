package blob

import (
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/config"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

// Module provides the local disk blob store.
var Module = fx.Options(
	fx.Provide(newLocal),
	fx.Provide(func(l *Local) repository.BlobStore { return l }),
)

func newLocal(cfg *config.Config) (*Local, error) {
	return NewLocal(cfg.BlobDir, cfg.BlobPublicPath)
}
