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

type TripReadStore struct {
	dbtx db.DBTX
}

func NewTripReadStore(dbtx db.DBTX) queries.TripReadStore {
	return &TripReadStore{dbtx: dbtx}
}

const tripViewColumns = `
	t.id, t.product_id, t.site_name, t.capacity, t.starts_at, t.status, t.version,
	(SELECT count(*) FROM bookings b WHERE b.trip_id = t.id AND b.status <> 'cancelled') AS active_bookings,
	t.created_at, t.updated_at`

func (s *TripReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TripView, error) {
	query := `SELECT ` + tripViewColumns + ` FROM trips t WHERE t.id = $1`

	view, err := scanTripView(s.dbtx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "trip not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan trip", err)
	}
	return view, nil
}

func (s *TripReadStore) FindUpcoming(ctx context.Context, limit int32) ([]*queries.TripView, error) {
	query := `
		SELECT ` + tripViewColumns + `
		FROM trips t
		WHERE t.status = 'scheduled' AND t.starts_at > now()
		ORDER BY t.starts_at
		LIMIT $1`

	rows, err := s.dbtx.Query(ctx, query, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query upcoming trips", err)
	}
	defer rows.Close()

	var views []*queries.TripView
	for rows.Next() {
		view, err := scanTripView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan trip row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate trip rows", err)
	}
	return views, nil
}

func scanTripView(row pgx.Row) (*queries.TripView, error) {
	var view queries.TripView
	err := row.Scan(
		&view.ID, &view.ProductID, &view.SiteName, &view.Capacity, &view.StartsAt,
		&view.Status, &view.Version, &view.ActiveBookings, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
