//go:build unit

package booking_test

import (
	"testing"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decidedAt = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

func price() pricing.Breakdown {
	return pricing.Breakdown{BaseCents: 10000, TotalCents: 10000, Currency: "USD"}
}

func TestNew(t *testing.T) {
	t.Run("immediate confirmation", func(t *testing.T) {
		b := booking.New(uuid.New(), uuid.New(), price(), true, decidedAt)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, decidedAt, b.DecidedAt())
		assert.True(t, b.Active())
	})

	t.Run("deferred confirmation holds the seat in pending_payment", func(t *testing.T) {
		b := booking.New(uuid.New(), uuid.New(), price(), false, decidedAt)

		assert.Equal(t, booking.StatusPendingPayment, b.Status())
		assert.True(t, b.Active())
	})
}

func TestTransitions(t *testing.T) {
	build := func(status booking.Status) *booking.Booking {
		return booking.Reconstruct(uuid.New(), uuid.New(), uuid.New(), status, price(), decidedAt, decidedAt)
	}

	t.Run("full lifecycle to completed", func(t *testing.T) {
		b := booking.New(uuid.New(), uuid.New(), price(), false, decidedAt)

		require.NoError(t, b.Confirm())
		require.NoError(t, b.CheckIn())
		require.NoError(t, b.Complete())
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("cancel allowed from every non-terminal state", func(t *testing.T) {
		for _, status := range []booking.Status{
			booking.StatusPendingPayment, booking.StatusConfirmed, booking.StatusCheckedIn,
		} {
			b := build(status)
			require.NoError(t, b.Cancel(), string(status))
			assert.Equal(t, booking.StatusCancelled, b.Status())
			assert.False(t, b.Active())
		}
	})

	t.Run("no-show allowed before completion", func(t *testing.T) {
		for _, status := range []booking.Status{
			booking.StatusPendingPayment, booking.StatusConfirmed, booking.StatusCheckedIn,
		} {
			b := build(status)
			require.NoError(t, b.MarkNoShow(), string(status))
			assert.Equal(t, booking.StatusNoShow, b.Status())
		}
	})

	t.Run("cannot check in before confirmation", func(t *testing.T) {
		b := build(booking.StatusPendingPayment)

		err := b.CheckIn()

		var invalid *booking.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, booking.StatusPendingPayment, invalid.From)
		assert.Equal(t, booking.StatusCheckedIn, invalid.To)
	})

	t.Run("cannot complete without check-in", func(t *testing.T) {
		b := build(booking.StatusConfirmed)

		assert.Error(t, b.Complete())
	})

	t.Run("terminal states accept nothing", func(t *testing.T) {
		for _, status := range []booking.Status{
			booking.StatusCompleted, booking.StatusCancelled, booking.StatusNoShow,
		} {
			b := build(status)
			assert.Error(t, b.Confirm(), string(status))
			assert.Error(t, b.CheckIn(), string(status))
			assert.Error(t, b.Complete(), string(status))
			assert.Error(t, b.Cancel(), string(status))
			assert.Error(t, b.MarkNoShow(), string(status))
		}
	})

	t.Run("no-show keeps the seat occupied", func(t *testing.T) {
		b := build(booking.StatusConfirmed)

		require.NoError(t, b.MarkNoShow())

		assert.True(t, b.Active())
		assert.True(t, b.Status().IsTerminal())
	})
}
