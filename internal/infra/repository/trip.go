package repository

import (
	"context"
	"errors"
	"time"

	"tripcore/internal/domain/trip"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TripRepository struct {
	dbtx db.DBTX
}

func NewTripRepository(dbtx db.DBTX) shared.TripRepository {
	return &TripRepository{dbtx: dbtx}
}

func (r *TripRepository) Create(ctx context.Context, t *trip.Trip) error {
	const query = `
		INSERT INTO trips (id, product_id, site_name, capacity, starts_at, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.dbtx.Exec(ctx, query,
		t.ID(), t.ProductID(), t.SiteName(), t.Capacity(), t.StartsAt(), string(t.Status()), t.Version())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert trip", err)
	}
	return nil
}

// FindForUpdate takes the trip row lock that serializes every capacity check
// and ledger append for the trip.
func (r *TripRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	const query = `
		SELECT id, product_id, site_name, capacity, starts_at, status, version, created_at, updated_at
		FROM trips WHERE id = $1 FOR UPDATE`

	return r.scanTrip(r.dbtx.QueryRow(ctx, query, id))
}

func (r *TripRepository) Save(ctx context.Context, t *trip.Trip) error {
	const query = `
		UPDATE trips SET status = $2, version = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, t.ID(), string(t.Status()), t.Version())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update trip", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "trip not found on update", nil)
	}
	return nil
}

func (r *TripRepository) scanTrip(row pgx.Row) (*trip.Trip, error) {
	var (
		id, productID        uuid.UUID
		siteName, status     string
		capacity             int
		version              int64
		startsAt             time.Time
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &productID, &siteName, &capacity, &startsAt, &status, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "trip not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan trip", err)
	}

	return trip.Reconstruct(id, productID, siteName, capacity, startsAt, trip.Status(status), version, createdAt, updatedAt), nil
}
