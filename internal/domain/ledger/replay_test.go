//go:build unit

package ledger_test

import (
	"testing"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/domain/trip"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var occurredAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

type streamBuilder struct {
	t       *testing.T
	tripID  uuid.UUID
	actorID uuid.UUID
	events  []ledger.Event
}

func newStream(t *testing.T) *streamBuilder {
	return &streamBuilder{t: t, tripID: uuid.New(), actorID: uuid.New()}
}

func (s *streamBuilder) add(kind ledger.Kind, bookingID *uuid.UUID, payload any) *streamBuilder {
	ev, err := ledger.NewEvent(s.tripID, kind, s.actorID, bookingID, occurredAt, payload)
	require.NoError(s.t, err)
	ev.Seq = int64(len(s.events) + 1)
	s.events = append(s.events, ev)
	return s
}

func (s *streamBuilder) scheduled(capacity int) *streamBuilder {
	return s.add(ledger.KindTripScheduled, nil, ledger.TripScheduledPayload{
		ProductID: uuid.New(),
		SiteName:  "Blue Hole",
		Capacity:  capacity,
		StartsAt:  occurredAt.Add(48 * time.Hour),
	})
}

func (s *streamBuilder) reserved(bookingID uuid.UUID, status booking.Status) *streamBuilder {
	return s.add(ledger.KindReservationCreated, &bookingID, ledger.ReservationCreatedPayload{
		BookingID: bookingID,
		SubjectID: uuid.New(),
		Status:    status,
		Decision:  eligibility.Decision{Eligible: true, EvaluatedAt: occurredAt},
		Price:     pricing.Breakdown{BaseCents: 10000, TotalCents: 10000, Currency: "USD"},
	})
}

func (s *streamBuilder) transitioned(bookingID uuid.UUID, from, to booking.Status) *streamBuilder {
	ev, err := ledger.NewReservationTransition(s.tripID, s.actorID, bookingID, from, to, "", occurredAt)
	require.NoError(s.t, err)
	ev.Seq = int64(len(s.events) + 1)
	s.events = append(s.events, ev)
	return s
}

func TestReplay(t *testing.T) {
	t.Run("reconstructs roster from full stream", func(t *testing.T) {
		first := uuid.New()
		second := uuid.New()
		s := newStream(t).
			scheduled(8).
			reserved(first, booking.StatusConfirmed).
			reserved(second, booking.StatusConfirmed).
			transitioned(second, booking.StatusConfirmed, booking.StatusCancelled)

		state, err := ledger.Replay(s.events)

		require.NoError(t, err)
		assert.Equal(t, s.tripID, state.TripID)
		assert.Equal(t, trip.StatusScheduled, state.Status)
		assert.Equal(t, 8, state.Capacity)
		assert.Equal(t, booking.StatusConfirmed, state.Bookings[first])
		assert.Equal(t, booking.StatusCancelled, state.Bookings[second])
		assert.Equal(t, 1, state.ActiveCount())
	})

	t.Run("trip transitions land on state", func(t *testing.T) {
		s := newStream(t).scheduled(4)
		s.add(ledger.KindTripStarted, nil, ledger.TripTransitionPayload{From: trip.StatusScheduled, To: trip.StatusInProgress})
		s.add(ledger.KindTripCompleted, nil, ledger.TripTransitionPayload{From: trip.StatusInProgress, To: trip.StatusCompleted})

		state, err := ledger.Replay(s.events)

		require.NoError(t, err)
		assert.Equal(t, trip.StatusCompleted, state.Status)
	})

	t.Run("no-show still counts as an occupied seat", func(t *testing.T) {
		id := uuid.New()
		s := newStream(t).
			scheduled(2).
			reserved(id, booking.StatusConfirmed).
			transitioned(id, booking.StatusConfirmed, booking.StatusNoShow)

		state, err := ledger.Replay(s.events)

		require.NoError(t, err)
		assert.Equal(t, 1, state.ActiveCount())
	})

	t.Run("empty stream is an error", func(t *testing.T) {
		_, err := ledger.Replay(nil)

		assert.ErrorIs(t, err, ledger.ErrEmptyStream)
	})

	t.Run("sequence gap is detected", func(t *testing.T) {
		s := newStream(t).scheduled(4).reserved(uuid.New(), booking.StatusConfirmed)
		s.events[1].Seq = 3

		_, err := ledger.Replay(s.events)

		assert.ErrorIs(t, err, ledger.ErrSequenceGap)
	})

	t.Run("stream not starting at one is detected", func(t *testing.T) {
		s := newStream(t).scheduled(4)
		s.events[0].Seq = 2

		_, err := ledger.Replay(s.events)

		assert.ErrorIs(t, err, ledger.ErrSequenceGap)
	})

	t.Run("unknown event kind is an error", func(t *testing.T) {
		s := newStream(t).scheduled(4)
		s.add(ledger.Kind("trip_teleported"), nil, struct{}{})

		_, err := ledger.Replay(s.events)

		assert.ErrorIs(t, err, ledger.ErrUnknownEvent)
	})
}
