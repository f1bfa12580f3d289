package booking

import (
	"time"

	"tripcore/internal/domain/pricing"

	"github.com/google/uuid"
)

// Booking is one subject's claim on one trip's capacity. The price breakdown
// is frozen at creation and never recomputed, whatever happens to the catalog
// afterwards.
type Booking struct {
	id        uuid.UUID
	tripID    uuid.UUID
	subjectID uuid.UUID
	status    Status
	price     pricing.Breakdown
	createdAt time.Time
	decidedAt time.Time
}

// New creates a booking with its frozen price. confirmImmediately skips the
// pending_payment pre-commit state, which is the default reservation path.
func New(tripID, subjectID uuid.UUID, price pricing.Breakdown, confirmImmediately bool, decidedAt time.Time) *Booking {
	status := StatusPendingPayment
	if confirmImmediately {
		status = StatusConfirmed
	}
	return &Booking{
		id:        uuid.New(),
		tripID:    tripID,
		subjectID: subjectID,
		status:    status,
		price:     price,
		decidedAt: decidedAt,
	}
}

func Reconstruct(
	id, tripID, subjectID uuid.UUID,
	status Status,
	price pricing.Breakdown,
	createdAt, decidedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		tripID:    tripID,
		subjectID: subjectID,
		status:    status,
		price:     price,
		createdAt: createdAt,
		decidedAt: decidedAt,
	}
}

// Active bookings hold a capacity slot. Cancellation is the only way a slot is
// released; completed and no_show bookings keep their seat in history.
func (b *Booking) Active() bool {
	return b.status != StatusCancelled
}

func (b *Booking) Confirm() error {
	return b.transition(StatusConfirmed)
}

func (b *Booking) CheckIn() error {
	return b.transition(StatusCheckedIn)
}

func (b *Booking) Complete() error {
	return b.transition(StatusCompleted)
}

func (b *Booking) Cancel() error {
	return b.transition(StatusCancelled)
}

func (b *Booking) MarkNoShow() error {
	return b.transition(StatusNoShow)
}

func (b *Booking) transition(to Status) error {
	if !canTransition(b.status, to) {
		return &InvalidTransitionError{BookingID: b.id, From: b.status, To: to}
	}
	b.status = to
	return nil
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) TripID() uuid.UUID        { return b.tripID }
func (b *Booking) SubjectID() uuid.UUID     { return b.subjectID }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) Price() pricing.Breakdown { return b.price }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) DecidedAt() time.Time     { return b.decidedAt }
