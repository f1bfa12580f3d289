package usecase

import (
	"tripcore/internal/domain/account"
	"tripcore/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, account.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, account.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", err
	}

	role := account.Role(claims.Role)
	if !role.IsValid() {
		return uuid.Nil, "", jwt.ErrInvalidToken
	}

	return claims.AccountID, role, nil
}
