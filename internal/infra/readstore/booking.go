package readstore

import (
	"context"
	"encoding/json"
	"errors"

	"tripcore/internal/domain/pricing"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) queries.BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
		SELECT id, trip_id, subject_id, status, price, created_at, decided_at
		FROM bookings WHERE id = $1`

	var view queries.BookingView
	var priceJSON []byte
	err := s.dbtx.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.TripID, &view.SubjectID, &view.Status, &priceJSON,
		&view.CreatedAt, &view.DecidedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
	}

	var price pricing.Breakdown
	if err := json.Unmarshal(priceJSON, &price); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode price breakdown", err)
	}
	view.Price = price
	return &view, nil
}

func (s *BookingReadStore) FindBySubjectID(ctx context.Context, subjectID uuid.UUID) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT id, trip_id, status, total_cents, currency, created_at
		FROM bookings WHERE subject_id = $1
		ORDER BY created_at DESC`

	rows, err := s.dbtx.Query(ctx, query, subjectID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(&item.ID, &item.TripID, &item.Status, &item.TotalCents, &item.Currency, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking row", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate booking rows", err)
	}
	return items, nil
}
