package account

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInactive     = errors.New("account is inactive")
)

// Account is an authenticated actor: an operator scheduling trips, a guide
// running check-in at the dock, or a diver booking a seat. Every ledger event
// records the account that caused it.
type Account struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
	isActive     bool
	createdAt    time.Time
}

func NewAccount(email, passwordHash string, role Role) (*Account, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	return &Account{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
	}, nil
}

func Reconstruct(id uuid.UUID, email, passwordHash string, role Role, isActive bool, createdAt time.Time) *Account {
	return &Account{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     isActive,
		createdAt:    createdAt,
	}
}

func (a *Account) ID() uuid.UUID        { return a.id }
func (a *Account) Email() string        { return a.email }
func (a *Account) PasswordHash() string { return a.passwordHash }
func (a *Account) Role() Role           { return a.role }
func (a *Account) IsActive() bool       { return a.isActive }
func (a *Account) CreatedAt() time.Time { return a.createdAt }
