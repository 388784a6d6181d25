package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
	pkgAuth "github.com/zulfalsa/danusan-x/internal/pkg/auth"
)

// AuthUseCase handles staff accounts and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new seller or admin account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string, role model.Role) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if !role.Valid() {
		verr := domainErrors.NewValidationError()
		verr.Add("role", "must be seller or admin")
		return nil, "", verr
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, hash, role)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(model.Principal{UserID: usr.ID, Role: usr.Role})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(model.Principal{UserID: usr.ID, Role: usr.Role})
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Resolve turns a token into the principal it was issued to. Tokens of
// deleted users or users whose role changed are rejected.
func (u *AuthUseCase) Resolve(ctx context.Context, token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	claimed, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Principal{}, err
	}
	usr, err := u.users.GetByID(ctx, claimed.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Principal{}, pkgAuth.ErrInvalidToken
		}
		return model.Principal{}, err
	}
	if usr.Role != claimed.Role {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return model.Principal{UserID: usr.ID, Role: usr.Role}, nil
}
