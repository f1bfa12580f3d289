package readstore

import (
	"context"
	"errors"

	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AccountReadStore struct {
	dbtx db.DBTX
}

func NewAccountReadStore(dbtx db.DBTX) queries.AccountReadStore {
	return &AccountReadStore{dbtx: dbtx}
}

func (s *AccountReadStore) FindByEmail(ctx context.Context, email string) (*queries.AccountView, string, error) {
	const query = `
		SELECT id, email, password_hash, role, is_active, created_at
		FROM accounts WHERE email = $1`

	var view queries.AccountView
	var hash string
	err := s.dbtx.QueryRow(ctx, query, email).Scan(
		&view.ID, &view.Email, &hash, &view.Role, &view.IsActive, &view.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr(infra.KindNotFound, "account not found", err)
		}
		return nil, "", infra.WrapRepoErr(infra.KindDBFailure, "failed to scan account", err)
	}
	return &view, hash, nil
}

func (s *AccountReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AccountView, error) {
	const query = `
		SELECT id, email, role, is_active, created_at
		FROM accounts WHERE id = $1`

	var view queries.AccountView
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.Email, &view.Role, &view.IsActive, &view.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "account not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan account", err)
	}
	return &view, nil
}
