package auth

import (
	"time"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

// Strategy issues and verifies staff session tokens.
type Strategy interface {
	IssueToken(principal model.Principal) (string, error)
	ParseToken(token string) (model.Principal, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
