package commands

import (
	"context"

	"tripcore/internal/domain/account"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/pkg/jwt"
	"tripcore/internal/pkg/password"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound    = errs.New("account not found")
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrAccountInactive    = errs.New("account inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	AccountID   uuid.UUID
	Role        account.Role
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	accounts   queries.AccountReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(accounts queries.AccountReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{accounts: accounts, jwtService: jwtService}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	view, hashed, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch so callers cannot enumerate accounts.
		return nil, ErrInvalidCredentials
	}
	if !view.IsActive {
		return nil, ErrAccountInactive
	}

	if err := password.Verify(hashed, plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := account.Role(view.Role)
	if !role.IsValid() {
		return nil, ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{AccountID: view.ID, Role: role, AccessToken: token}, nil
}
