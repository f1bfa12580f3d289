//go:build unit || e2e

package builder

import (
	"time"

	"tripcore/internal/domain/trip"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
)

type TripBuilder struct {
	id        uuid.UUID
	productID uuid.UUID
	siteName  string
	capacity  int
	startsAt  time.Time
	status    trip.Status
	version   int64
}

func NewTripBuilder() *TripBuilder {
	return &TripBuilder{
		id:        uuid.New(),
		productID: uuid.New(),
		siteName:  "Blue Hole",
		capacity:  8,
		startsAt:  time.Date(2026, 9, 20, 8, 0, 0, 0, time.UTC),
		status:    trip.StatusScheduled,
		version:   1,
	}
}

func (b *TripBuilder) WithID(id uuid.UUID) *TripBuilder {
	b.id = id
	return b
}

func (b *TripBuilder) WithProductID(id uuid.UUID) *TripBuilder {
	b.productID = id
	return b
}

func (b *TripBuilder) WithSiteName(name string) *TripBuilder {
	b.siteName = name
	return b
}

func (b *TripBuilder) WithCapacity(capacity int) *TripBuilder {
	b.capacity = capacity
	return b
}

func (b *TripBuilder) WithStartsAt(t time.Time) *TripBuilder {
	b.startsAt = t
	return b
}

func (b *TripBuilder) WithStatus(status trip.Status) *TripBuilder {
	b.status = status
	return b
}

func (b *TripBuilder) Build() *trip.Trip {
	now := b.startsAt.Add(-24 * time.Hour)
	return trip.Reconstruct(b.id, b.productID, b.siteName, b.capacity, b.startsAt, b.status, b.version, now, now)
}

func (b *TripBuilder) BuildView() *queries.TripView {
	now := b.startsAt.Add(-24 * time.Hour)
	return &queries.TripView{
		ID:        b.id,
		ProductID: b.productID,
		SiteName:  b.siteName,
		Capacity:  b.capacity,
		StartsAt:  b.startsAt,
		Status:    string(b.status),
		Version:   b.version,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
