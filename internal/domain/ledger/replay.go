package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/trip"

	"github.com/google/uuid"
)

var (
	ErrSequenceGap  = errors.New("gap or reordering in event sequence")
	ErrEmptyStream  = errors.New("empty event stream")
	ErrUnknownEvent = errors.New("unknown event kind in stream")
)

// TripState is the aggregate state reconstructed from a stream. Replaying the
// full stream must agree with the live tables; that equivalence is how a
// dispute reader proves nothing was lost or reordered.
type TripState struct {
	TripID   uuid.UUID
	Status   trip.Status
	Capacity int
	Bookings map[uuid.UUID]booking.Status
}

// Replay folds an ordered stream into the current aggregate state. It
// verifies the sequence is dense (1..n) before applying anything.
func Replay(events []Event) (*TripState, error) {
	if len(events) == 0 {
		return nil, ErrEmptyStream
	}
	for i, ev := range events {
		if ev.Seq != int64(i+1) {
			return nil, fmt.Errorf("%w: position %d has seq %d", ErrSequenceGap, i+1, ev.Seq)
		}
	}

	state := &TripState{
		TripID:   events[0].AggregateID,
		Bookings: make(map[uuid.UUID]booking.Status),
	}

	for _, ev := range events {
		if err := apply(state, ev); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func apply(state *TripState, ev Event) error {
	switch ev.Kind {
	case KindTripScheduled:
		var p TripScheduledPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return err
		}
		state.Status = trip.StatusScheduled
		state.Capacity = p.Capacity

	case KindTripStarted:
		state.Status = trip.StatusInProgress

	case KindTripCompleted:
		state.Status = trip.StatusCompleted

	case KindTripCancelled:
		state.Status = trip.StatusCancelled

	case KindReservationCreated:
		var p ReservationCreatedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return err
		}
		state.Bookings[p.BookingID] = p.Status

	case KindReservationConfirmed, KindReservationCheckedIn, KindReservationCompleted,
		KindReservationCancelled, KindReservationNoShow:
		var p ReservationTransitionPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return err
		}
		state.Bookings[p.BookingID] = p.To

	default:
		return fmt.Errorf("%w: %q at seq %d", ErrUnknownEvent, ev.Kind, ev.Seq)
	}
	return nil
}

// ActiveCount is the number of seats held after replay: every non-cancelled
// booking occupies one.
func (s *TripState) ActiveCount() int {
	n := 0
	for _, st := range s.Bookings {
		if st != booking.StatusCancelled {
			n++
		}
	}
	return n
}
