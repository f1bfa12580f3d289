package queries

import (
	"context"

	"github.com/google/uuid"
)

type TripReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TripView, error)
	FindUpcoming(ctx context.Context, limit int32) ([]*TripView, error)
}

type TripQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TripView, error)
	ListUpcoming(ctx context.Context, limit int) ([]*TripView, error)
}

type tripQueriesImpl struct {
	trips TripReadStore
}

func NewTripQueries(trips TripReadStore) TripQueries {
	return &tripQueriesImpl{trips: trips}
}

func (q *tripQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*TripView, error) {
	return q.trips.FindByID(ctx, id)
}

func (q *tripQueriesImpl) ListUpcoming(ctx context.Context, limit int) ([]*TripView, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return q.trips.FindUpcoming(ctx, int32(limit))
}
