package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
	testhelpers "github.com/zulfalsa/danusan-x/internal/test"
)

func newAuthUseCase(repo *testhelpers.UserRepositoryStub) *AuthUseCase {
	return NewAuthUseCase(repo, testhelpers.HasherStub{}, testhelpers.StrategyStub{})
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(repo)

	ctx := context.Background()
	user, token, err := uc.Register(ctx, " alice ", "password", model.RoleSeller)
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 || user.Role != model.RoleSeller {
		t.Fatalf("unexpected user %+v", user)
	}
	if token != "token-1-seller" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret", model.RoleAdmin); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret", model.RoleSeller); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub())
	ctx := context.Background()

	if _, _, err := uc.Register(ctx, "", "password", model.RoleSeller); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(ctx, "user", "", model.RoleSeller); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Register(ctx, "user", "pass", model.Role("buyer")); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for role, got %v", err)
	}
}

func TestAuthUseCaseRegisterFailures(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		hasher   testhelpers.HasherStub
		strategy testhelpers.StrategyStub
	}{
		{
			name:   "hasher",
			hasher: testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", fmt.Errorf("hash error") }},
		},
		{
			name:    "repository",
			repoErr: fmt.Errorf("db down"),
		},
		{
			name: "token",
			strategy: testhelpers.StrategyStub{IssueFn: func(model.Principal) (string, error) {
				return "", fmt.Errorf("cannot issue token")
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testhelpers.NewUserRepositoryStub()
			repo.Err = tt.repoErr
			uc := NewAuthUseCase(repo, tt.hasher, tt.strategy)
			if _, _, err := uc.Register(context.Background(), "user", "pass", model.RoleSeller); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456", model.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, " ", "123456"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1-admin" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(repo)
	if _, _, err := uc.Register(context.Background(), "user", "pass", model.RoleSeller); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(context.Background(), "user", "pass"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseResolve(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(repo)
	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "dina", "pass", model.RoleSeller); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	principal, err := uc.Resolve(ctx, "token-1-seller")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal != (model.Principal{UserID: 1, Role: model.RoleSeller}) {
		t.Fatalf("unexpected principal %+v", principal)
	}

	for _, token := range []string{"", "garbage", "token-1-admin", "token-7-seller"} {
		if _, err := uc.Resolve(ctx, token); err != pkgAuth.ErrInvalidToken {
			t.Fatalf("resolve %q: expected invalid token, got %v", token, err)
		}
	}

	repo.Err = fmt.Errorf("db down")
	if _, err := uc.Resolve(ctx, "token-1-seller"); err == nil || errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
