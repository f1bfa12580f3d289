package queries

import (
	"encoding/json"
	"time"

	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/pricing"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID        uuid.UUID         `json:"id"`
	TripID    uuid.UUID         `json:"trip_id"`
	SubjectID uuid.UUID         `json:"subject_id"`
	Status    string            `json:"status"`
	Price     pricing.Breakdown `json:"price"`
	CreatedAt time.Time         `json:"created_at"`
	DecidedAt time.Time         `json:"decided_at"`
}

type BookingListItem struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

type TripView struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	SiteName       string    `json:"site_name"`
	Capacity       int       `json:"capacity"`
	StartsAt       time.Time `json:"starts_at"`
	Status         string    `json:"status"`
	Version        int64     `json:"version"`
	ActiveBookings int       `json:"active_bookings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DecisionView is read back from the reservation_created ledger event, the
// only durable home of the full justification.
type DecisionView struct {
	BookingID uuid.UUID            `json:"booking_id"`
	TripID    uuid.UUID            `json:"trip_id"`
	SubjectID uuid.UUID            `json:"subject_id"`
	Decision  eligibility.Decision `json:"decision"`
	Price     pricing.Breakdown    `json:"price"`
	DecidedAt time.Time            `json:"decided_at"`
}

type EventView struct {
	ID          uuid.UUID       `json:"id"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Seq         int64           `json:"seq"`
	Kind        string          `json:"kind"`
	ActorID     uuid.UUID       `json:"actor_id"`
	BookingID   *uuid.UUID      `json:"booking_id,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}
