package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountReadStore interface {
	// FindByEmail returns the view together with the stored password hash. The
	// hash never appears on any view struct.
	FindByEmail(ctx context.Context, email string) (*AccountView, string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*AccountView, error)
}

type AccountQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AccountView, error)
}

type accountQueriesImpl struct {
	accounts AccountReadStore
}

func NewAccountQueries(accounts AccountReadStore) AccountQueries {
	return &accountQueriesImpl{accounts: accounts}
}

func (q *accountQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AccountView, error) {
	return q.accounts.FindByID(ctx, id)
}
