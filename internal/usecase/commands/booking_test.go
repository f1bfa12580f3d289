//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/pkg/clock"
	"tripcore/internal/pkg/config"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/usecase/commands"
	"tripcore/internal/usecase/shared"
	"tripcore/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

type bookingFixture struct {
	store     *fakeStore
	clock     *clock.MockClock
	commands  commands.BookingCommands
	tripID    uuid.UUID
	productID uuid.UUID
	subjectID uuid.UUID
	actorID   uuid.UUID
}

func reserveConfig() config.ReserveConfig {
	return config.ReserveConfig{
		TxTimeout:  5 * time.Second,
		MaxRetries: 3,
		IdemKeyTTL: 24 * time.Hour,
	}
}

// newBookingFixture seeds one open trip, its product and one eligible subject.
func newBookingFixture(t *testing.T, capacity int) *bookingFixture {
	t.Helper()

	store := newFakeStore()
	mockClock := clock.NewMockClock(now)

	tr := builder.NewTripBuilder().
		WithCapacity(capacity).
		WithStartsAt(now.Add(48 * time.Hour)).
		Build()
	store.trips[tr.ID()] = tr

	product := shared.ProductSnapshot{
		ID:        tr.ProductID(),
		Name:      "Two-Tank Reef Dive",
		Currency:  "USD",
		BaseCents: 10000,
		Requirements: []eligibility.Requirement{
			{Kind: eligibility.KindMinCertTier, Hard: true, MinTier: eligibility.TierOpenWater},
			{Kind: eligibility.KindMinAge, Hard: true, MinYears: 18},
		},
	}
	store.products[product.ID] = product

	subject := builder.NewSubjectBuilder().Build()
	store.subjects[subject.ID] = subject

	uow := &fakeUoW{store: store}
	cmds := commands.NewBookingCommands(
		uow,
		&fakeIdempotency{store: store},
		&fakeBookingQueries{store: store},
		mockClock,
		reserveConfig(),
	)

	return &bookingFixture{
		store:     store,
		clock:     mockClock,
		commands:  cmds,
		tripID:    tr.ID(),
		productID: product.ID,
		subjectID: subject.ID,
		actorID:   uuid.New(),
	}
}

func (f *bookingFixture) addSubject(t *testing.T) uuid.UUID {
	t.Helper()
	subject := builder.NewSubjectBuilder().Build()
	f.store.subjects[subject.ID] = subject
	return subject.ID
}

func (f *bookingFixture) reserve(subjectID uuid.UUID) (*commands.ReserveResult, error) {
	return f.commands.Reserve(context.Background(), commands.ReserveParams{
		TripID:    f.tripID,
		SubjectID: subjectID,
	}, f.actorID, uuid.New())
}

func TestReserve(t *testing.T) {
	t.Run("successful reservation freezes price and records decision", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		result, err := f.reserve(f.subjectID)

		require.NoError(t, err)
		assert.False(t, result.Replayed)
		assert.Equal(t, string(booking.StatusConfirmed), result.Booking.Status)
		assert.Equal(t, int64(10000), result.Booking.Price.TotalCents)
		assert.True(t, result.Decision.Eligible)

		require.Len(t, f.store.events, 1)
		ev := f.store.events[0]
		assert.Equal(t, ledger.KindReservationCreated, ev.Kind)
		assert.Equal(t, f.tripID, ev.AggregateID)
		assert.Equal(t, int64(1), ev.Seq)

		tr := f.store.trips[f.tripID]
		assert.Equal(t, int64(2), tr.Version())
	})

	t.Run("deferred confirmation holds seat in pending_payment", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		result, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:            f.tripID,
			SubjectID:         f.subjectID,
			DeferConfirmation: true,
		}, f.actorID, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, string(booking.StatusPendingPayment), result.Booking.Status)

		taken, err := (&fakeBookings{store: f.store}).CountActiveByTrip(context.Background(), f.tripID)
		require.NoError(t, err)
		assert.Equal(t, 1, taken)
	})

	t.Run("capacity is never oversold", func(t *testing.T) {
		f := newBookingFixture(t, 1)

		_, err := f.reserve(f.subjectID)
		require.NoError(t, err)

		second := f.addSubject(t)
		_, err = f.reserve(second)

		assert.ErrorIs(t, err, errs.ErrCapacityExceeded)
		taken, countErr := (&fakeBookings{store: f.store}).CountActiveByTrip(context.Background(), f.tripID)
		require.NoError(t, countErr)
		assert.Equal(t, 1, taken)
		// Only the winning reservation left an event.
		assert.Len(t, f.store.events, 1)
	})

	t.Run("cancellation frees the seat", func(t *testing.T) {
		f := newBookingFixture(t, 1)

		result, err := f.reserve(f.subjectID)
		require.NoError(t, err)

		_, err = f.commands.Cancel(context.Background(), result.Booking.ID, f.actorID, "change of plans")
		require.NoError(t, err)

		second := f.addSubject(t)
		_, err = f.reserve(second)
		assert.NoError(t, err)
	})

	t.Run("subject cannot hold two active bookings on one trip", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		_, err := f.reserve(f.subjectID)
		require.NoError(t, err)

		_, err = f.reserve(f.subjectID)
		assert.ErrorIs(t, err, errs.ErrAlreadyReserved)
	})

	t.Run("ineligible subject is rejected with full decision and no side effects", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		minor := builder.NewSubjectBuilder().
			WithBirthDate(now.AddDate(-16, 0, 0)).
			Build()
		f.store.subjects[minor.ID] = minor

		_, err := f.reserve(minor.ID)

		notEligible, ok := commands.IsNotEligible(err)
		require.True(t, ok)
		assert.False(t, notEligible.Decision.Eligible)
		assert.Len(t, notEligible.Decision.Checks, 2)

		assert.Empty(t, f.store.bookings)
		assert.Empty(t, f.store.events)
		tr := f.store.trips[f.tripID]
		assert.Equal(t, int64(1), tr.Version())
	})

	t.Run("unknown trip", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    uuid.New(),
			SubjectID: f.subjectID,
		}, f.actorID, uuid.New())

		assert.ErrorIs(t, err, errs.ErrTripNotFound)
	})

	t.Run("cancelled trip is not open", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		tr := f.store.trips[f.tripID]
		require.NoError(t, tr.Cancel())

		_, err := f.reserve(f.subjectID)

		assert.ErrorIs(t, err, errs.ErrTripNotOpen)
	})

	t.Run("reservations close at departure", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		f.clock.Add(48 * time.Hour)

		_, err := f.reserve(f.subjectID)

		assert.ErrorIs(t, err, errs.ErrReservationClosed)
	})

	t.Run("site and tier and promo adjustments land on the frozen price", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		f.store.sites["Blue Hole"] = pricing.SiteAdjustment{SiteName: "Blue Hole", AmountCents: 2000}
		product := f.store.products[f.productID]
		product.TierDiscountPercent = 10
		product.TierDiscountMin = eligibility.TierAdvanced
		f.store.products[f.productID] = product
		f.store.promos["SUMMER"] = pricing.PromoCode{Code: "SUMMER", AmountOffCents: 500}

		promo := "SUMMER"
		result, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
			PromoCode: &promo,
		}, f.actorID, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, int64(10300), result.Booking.Price.TotalCents)
		assert.Len(t, result.Booking.Price.Lines, 3)
	})

	t.Run("expired promo is a validation error", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		expired := now.AddDate(0, -1, 0)
		f.store.promos["OLD"] = pricing.PromoCode{Code: "OLD", AmountOffCents: 500, ValidTo: &expired}

		promo := "OLD"
		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
			PromoCode: &promo,
		}, f.actorID, uuid.New())

		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown promo code", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		promo := "NOPE"
		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
			PromoCode: &promo,
		}, f.actorID, uuid.New())

		assert.ErrorIs(t, err, errs.ErrPromoNotFound)
	})
}

func TestReserveIdempotency(t *testing.T) {
	t.Run("missing key is rejected", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
		}, f.actorID, uuid.Nil)

		assert.ErrorIs(t, err, errs.ErrIdempotencyKeyRequired)
	})

	t.Run("same key and same request replays the stored booking", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		key := uuid.New()
		params := commands.ReserveParams{TripID: f.tripID, SubjectID: f.subjectID}

		first, err := f.commands.Reserve(context.Background(), params, f.actorID, key)
		require.NoError(t, err)

		// A catalog change after the first call must not leak into the replay.
		product := f.store.products[f.productID]
		product.BaseCents = 99999
		f.store.products[f.productID] = product

		second, err := f.commands.Reserve(context.Background(), params, f.actorID, key)
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Booking.ID, second.Booking.ID)
		assert.Equal(t, int64(10000), second.Booking.Price.TotalCents)
		assert.Len(t, f.store.bookings, 1)
		assert.Len(t, f.store.events, 1)
	})

	t.Run("same key with different request is a conflict", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		key := uuid.New()

		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
		}, f.actorID, key)
		require.NoError(t, err)

		promo := "SUMMER"
		_, err = f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
			PromoCode: &promo,
		}, f.actorID, key)

		assert.ErrorIs(t, err, errs.ErrIdempotencyMismatch)
	})

	t.Run("key still processing reports in-progress", func(t *testing.T) {
		f := newBookingFixture(t, 8)
		key := uuid.New()

		// A failed attempt leaves the claim in processing.
		tr := f.store.trips[f.tripID]
		require.NoError(t, tr.Cancel())
		_, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
		}, f.actorID, key)
		require.ErrorIs(t, err, errs.ErrTripNotOpen)

		_, err = f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:    f.tripID,
			SubjectID: f.subjectID,
		}, f.actorID, key)

		assert.ErrorIs(t, err, errs.ErrIdempotencyInProgress)
	})
}

func TestBookingTransitions(t *testing.T) {
	setup := func(t *testing.T, deferConfirm bool) (*bookingFixture, uuid.UUID) {
		t.Helper()
		f := newBookingFixture(t, 8)
		result, err := f.commands.Reserve(context.Background(), commands.ReserveParams{
			TripID:            f.tripID,
			SubjectID:         f.subjectID,
			DeferConfirmation: deferConfirm,
		}, f.actorID, uuid.New())
		require.NoError(t, err)
		return f, result.Booking.ID
	}

	t.Run("confirm from pending_payment appends an event", func(t *testing.T) {
		f, bookingID := setup(t, true)

		view, err := f.commands.Confirm(context.Background(), bookingID, f.actorID)

		require.NoError(t, err)
		assert.Equal(t, string(booking.StatusConfirmed), view.Status)
		last := f.store.events[len(f.store.events)-1]
		assert.Equal(t, ledger.KindReservationConfirmed, last.Kind)
		assert.Equal(t, int64(2), last.Seq)
	})

	t.Run("check-in, complete", func(t *testing.T) {
		f, bookingID := setup(t, false)

		_, err := f.commands.CheckIn(context.Background(), bookingID, f.actorID)
		require.NoError(t, err)
		view, err := f.commands.Complete(context.Background(), bookingID, f.actorID)
		require.NoError(t, err)

		assert.Equal(t, string(booking.StatusCompleted), view.Status)
		assert.Len(t, f.store.events, 3)
	})

	t.Run("no-show", func(t *testing.T) {
		f, bookingID := setup(t, false)

		view, err := f.commands.MarkNoShow(context.Background(), bookingID, f.actorID)

		require.NoError(t, err)
		assert.Equal(t, string(booking.StatusNoShow), view.Status)
	})

	t.Run("invalid transition is rejected with no event", func(t *testing.T) {
		f, bookingID := setup(t, true)

		_, err := f.commands.Complete(context.Background(), bookingID, f.actorID)

		var invalid *booking.InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Len(t, f.store.events, 1)
	})

	t.Run("double cancel is an idempotent no-op", func(t *testing.T) {
		f, bookingID := setup(t, false)

		_, err := f.commands.Cancel(context.Background(), bookingID, f.actorID, "weather")
		require.NoError(t, err)
		view, err := f.commands.Cancel(context.Background(), bookingID, f.actorID, "weather")
		require.NoError(t, err)

		assert.Equal(t, string(booking.StatusCancelled), view.Status)
		// One creation event, one cancellation event; the second cancel wrote nothing.
		assert.Len(t, f.store.events, 2)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t, 8)

		_, err := f.commands.Confirm(context.Background(), uuid.New(), f.actorID)

		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})

	t.Run("cancelled trip blocks every transition except cancel", func(t *testing.T) {
		f, bookingID := setup(t, false)
		tr := f.store.trips[f.tripID]
		require.NoError(t, tr.Cancel())

		_, err := f.commands.CheckIn(context.Background(), bookingID, f.actorID)
		assert.ErrorIs(t, err, errs.ErrTripNotOpen)
		_, err = f.commands.Complete(context.Background(), bookingID, f.actorID)
		assert.ErrorIs(t, err, errs.ErrTripNotOpen)

		// Nothing moved: the booking is untouched and no event was written.
		assert.Equal(t, booking.StatusConfirmed, f.store.bookings[bookingID].Status())
		assert.Len(t, f.store.events, 1)

		view, err := f.commands.Cancel(context.Background(), bookingID, f.actorID, "trip cancelled")
		require.NoError(t, err)
		assert.Equal(t, string(booking.StatusCancelled), view.Status)
		assert.Len(t, f.store.events, 2)
	})
}
