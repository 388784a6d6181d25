package test

import (
	"context"
	"errors"
	"fmt"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides. Without
// overrides tokens look like "token-<id>-<role>".
type StrategyStub struct {
	IssueFn func(model.Principal) (string, error)
	ParseFn func(string) (model.Principal, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(principal model.Principal) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(principal)
	}
	return fmt.Sprintf("token-%d-%s", principal.UserID, principal.Role), nil
}

// ParseToken parses tokens produced by IssueToken.
func (s StrategyStub) ParseToken(token string) (model.Principal, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	var (
		id   int64
		role string
	)
	if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return model.Principal{UserID: id, Role: model.Role(role)}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// ResolverStub implements the middleware token resolution contract.
type ResolverStub struct {
	Principal model.Principal
	Err       error
	ResolveFn func(context.Context, string) (model.Principal, error)
}

// Resolve either delegates to override or returns predefined result.
func (s ResolverStub) Resolve(ctx context.Context, token string) (model.Principal, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, token)
	}
	if s.Err != nil {
		return model.Principal{}, s.Err
	}
	return s.Principal, nil
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
