package ledger

import (
	"encoding/json"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/domain/trip"

	"github.com/google/uuid"
)

type Kind string

const (
	KindTripScheduled        Kind = "trip_scheduled"
	KindTripStarted          Kind = "trip_started"
	KindTripCompleted        Kind = "trip_completed"
	KindTripCancelled        Kind = "trip_cancelled"
	KindReservationCreated   Kind = "reservation_created"
	KindReservationConfirmed Kind = "reservation_confirmed"
	KindReservationCheckedIn Kind = "reservation_checked_in"
	KindReservationCompleted Kind = "reservation_completed"
	KindReservationCancelled Kind = "reservation_cancelled"
	KindReservationNoShow    Kind = "reservation_no_show"
)

// Event is one immutable entry in an aggregate's stream. The stream aggregate
// is the trip: every state change to the trip or to one of its bookings lands
// on the trip's stream, so replaying a single stream reconstructs the roster.
// Seq is assigned by the store at append time, strictly increasing and
// gap-free per aggregate.
type Event struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	Seq         int64
	Kind        Kind
	ActorID     uuid.UUID
	BookingID   *uuid.UUID
	OccurredAt  time.Time
	Payload     json.RawMessage
}

// TripScheduledPayload snapshots the trip's fixed facts at scheduling time.
type TripScheduledPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	SiteName  string    `json:"site_name"`
	Capacity  int       `json:"capacity"`
	StartsAt  time.Time `json:"starts_at"`
}

type TripTransitionPayload struct {
	From   trip.Status `json:"from"`
	To     trip.Status `json:"to"`
	Reason string      `json:"reason,omitempty"`
}

// ReservationCreatedPayload is the only durable home of the full eligibility
// decision and the frozen price breakdown. The booking row keeps the scalar
// outcomes; the ledger keeps the justification.
type ReservationCreatedPayload struct {
	BookingID uuid.UUID            `json:"booking_id"`
	SubjectID uuid.UUID            `json:"subject_id"`
	Status    booking.Status       `json:"status"`
	Decision  eligibility.Decision `json:"decision"`
	Price     pricing.Breakdown    `json:"price"`
}

type ReservationTransitionPayload struct {
	BookingID uuid.UUID      `json:"booking_id"`
	From      booking.Status `json:"from"`
	To        booking.Status `json:"to"`
	Reason    string         `json:"reason,omitempty"`
}

// NewEvent builds an unsequenced event; the repository assigns Seq inside the
// same transaction that performs the mutation.
func NewEvent(aggregateID uuid.UUID, kind Kind, actorID uuid.UUID, bookingID *uuid.UUID, occurredAt time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		Kind:        kind,
		ActorID:     actorID,
		BookingID:   bookingID,
		OccurredAt:  occurredAt,
		Payload:     raw,
	}, nil
}

func transitionKind(to booking.Status) Kind {
	switch to {
	case booking.StatusConfirmed:
		return KindReservationConfirmed
	case booking.StatusCheckedIn:
		return KindReservationCheckedIn
	case booking.StatusCompleted:
		return KindReservationCompleted
	case booking.StatusCancelled:
		return KindReservationCancelled
	case booking.StatusNoShow:
		return KindReservationNoShow
	default:
		return ""
	}
}

// NewReservationTransition maps a booking status change to its event kind.
func NewReservationTransition(tripID, actorID, bookingID uuid.UUID, from, to booking.Status, reason string, occurredAt time.Time) (Event, error) {
	id := bookingID
	return NewEvent(tripID, transitionKind(to), actorID, &id, occurredAt, ReservationTransitionPayload{
		BookingID: bookingID,
		From:      from,
		To:        to,
		Reason:    reason,
	})
}
