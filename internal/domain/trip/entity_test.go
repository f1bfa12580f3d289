//go:build unit

package trip_test

import (
	"testing"
	"time"

	"tripcore/internal/domain/trip"
	"tripcore/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func TestNewTrip(t *testing.T) {
	cases := []struct {
		name     string
		siteName string
		capacity int
		startsAt time.Time
		errIs    error
	}{
		{name: "valid trip", siteName: "Blue Hole", capacity: 8, startsAt: now.Add(48 * time.Hour)},
		{name: "capacity of one is allowed", siteName: "Blue Hole", capacity: 1, startsAt: now.Add(48 * time.Hour)},
		{name: "zero capacity rejected", siteName: "Blue Hole", capacity: 0, startsAt: now.Add(48 * time.Hour), errIs: trip.ErrInvalidCapacity},
		{name: "negative capacity rejected", siteName: "Blue Hole", capacity: -1, startsAt: now.Add(48 * time.Hour), errIs: trip.ErrInvalidCapacity},
		{name: "blank site rejected", siteName: "   ", capacity: 8, startsAt: now.Add(48 * time.Hour), errIs: trip.ErrEmptySite},
		{name: "past departure rejected", siteName: "Blue Hole", capacity: 8, startsAt: now.Add(-time.Hour), errIs: trip.ErrStartNotFuture},
		{name: "departure equal to now rejected", siteName: "Blue Hole", capacity: 8, startsAt: now, errIs: trip.ErrStartNotFuture},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := trip.NewTrip(uuid.New(), tc.siteName, tc.capacity, tc.startsAt, now)

			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, trip.StatusScheduled, actual.Status())
			assert.Equal(t, int64(1), actual.Version())
		})
	}
}

func TestTripTransitions(t *testing.T) {
	t.Run("scheduled can start", func(t *testing.T) {
		tr := builder.NewTripBuilder().Build()

		require.NoError(t, tr.Start())
		assert.Equal(t, trip.StatusInProgress, tr.Status())
		assert.Equal(t, int64(2), tr.Version())
	})

	t.Run("scheduled can cancel", func(t *testing.T) {
		tr := builder.NewTripBuilder().Build()

		require.NoError(t, tr.Cancel())
		assert.Equal(t, trip.StatusCancelled, tr.Status())
	})

	t.Run("in progress can complete", func(t *testing.T) {
		tr := builder.NewTripBuilder().WithStatus(trip.StatusInProgress).Build()

		require.NoError(t, tr.Complete())
		assert.Equal(t, trip.StatusCompleted, tr.Status())
	})

	t.Run("scheduled cannot complete directly", func(t *testing.T) {
		tr := builder.NewTripBuilder().Build()

		err := tr.Complete()

		var invalid *trip.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, trip.StatusScheduled, invalid.From)
		assert.Equal(t, trip.StatusCompleted, invalid.To)
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		for _, status := range []trip.Status{trip.StatusCompleted, trip.StatusCancelled} {
			tr := builder.NewTripBuilder().WithStatus(status).Build()

			assert.Error(t, tr.Start())
			assert.Error(t, tr.Complete())
			assert.Error(t, tr.Cancel())
		}
	})

	t.Run("in progress cannot cancel", func(t *testing.T) {
		tr := builder.NewTripBuilder().WithStatus(trip.StatusInProgress).Build()

		assert.Error(t, tr.Cancel())
	})
}

func TestOpenForReservation(t *testing.T) {
	departure := now.Add(48 * time.Hour)

	cases := []struct {
		name   string
		status trip.Status
		asOf   time.Time
		want   bool
	}{
		{name: "scheduled before departure", status: trip.StatusScheduled, asOf: now, want: true},
		{name: "scheduled at departure", status: trip.StatusScheduled, asOf: departure, want: false},
		{name: "scheduled after departure", status: trip.StatusScheduled, asOf: departure.Add(time.Minute), want: false},
		{name: "cancelled trip", status: trip.StatusCancelled, asOf: now, want: false},
		{name: "in-progress trip", status: trip.StatusInProgress, asOf: now, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := builder.NewTripBuilder().WithStatus(tc.status).WithStartsAt(departure).Build()

			assert.Equal(t, tc.want, tr.OpenForReservation(tc.asOf))
		})
	}
}

func TestTouch(t *testing.T) {
	tr := builder.NewTripBuilder().Build()

	tr.Touch()

	assert.Equal(t, trip.StatusScheduled, tr.Status())
	assert.Equal(t, int64(2), tr.Version())
}
