package auth

import (
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newGate),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.JWTSecret, Options{})
}

func newGate(p strategyParams) *Gate {
	return NewGate(p.Config.GatePassword, p.Config.JWTSecret)
}
