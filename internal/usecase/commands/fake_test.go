//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/domain/trip"
	"tripcore/internal/infra"
	"tripcore/internal/usecase/queries"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database. Reads hand out copies
// and writes replace whole entries, mirroring scan-and-update semantics, so
// the fake unit of work can roll back by restoring map snapshots.
type fakeStore struct {
	trips    map[uuid.UUID]*trip.Trip
	bookings map[uuid.UUID]*booking.Booking
	events   []ledger.Event
	idem     map[string]*shared.IdempotencyRecord
	subjects map[uuid.UUID]eligibility.Subject
	products map[uuid.UUID]shared.ProductSnapshot
	sites    map[string]pricing.SiteAdjustment
	promos   map[string]pricing.PromoCode
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		trips:    make(map[uuid.UUID]*trip.Trip),
		bookings: make(map[uuid.UUID]*booking.Booking),
		idem:     make(map[string]*shared.IdempotencyRecord),
		subjects: make(map[uuid.UUID]eligibility.Subject),
		products: make(map[uuid.UUID]shared.ProductSnapshot),
		sites:    make(map[string]pricing.SiteAdjustment),
		promos:   make(map[string]pricing.PromoCode),
	}
}

func copyTrip(t *trip.Trip) *trip.Trip {
	return trip.Reconstruct(t.ID(), t.ProductID(), t.SiteName(), t.Capacity(), t.StartsAt(),
		t.Status(), t.Version(), t.CreatedAt(), t.UpdatedAt())
}

func copyBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstruct(b.ID(), b.TripID(), b.SubjectID(), b.Status(), b.Price(),
		b.CreatedAt(), b.DecidedAt())
}

func idemKey(key, subjectID uuid.UUID) string {
	return key.String() + "/" + subjectID.String()
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tripsSnap := make(map[uuid.UUID]*trip.Trip, len(u.store.trips))
	for k, v := range u.store.trips {
		tripsSnap[k] = v
	}
	bookingsSnap := make(map[uuid.UUID]*booking.Booking, len(u.store.bookings))
	for k, v := range u.store.bookings {
		bookingsSnap[k] = v
	}
	eventsSnap := u.store.events
	idemSnap := make(map[string]*shared.IdempotencyRecord, len(u.store.idem))
	for k, v := range u.store.idem {
		record := *v
		idemSnap[k] = &record
	}

	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		u.store.trips = tripsSnap
		u.store.bookings = bookingsSnap
		u.store.events = eventsSnap
		u.store.idem = idemSnap
		return err
	}
	return nil
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Trips() shared.TripRepository { return &fakeTrips{store: t.store} }

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookings{store: t.store} }

func (t *fakeTx) Ledger() shared.LedgerRepository { return &fakeLedger{store: t.store} }

func (t *fakeTx) Idempotency() shared.IdempotencyRepository { return &fakeIdempotency{store: t.store} }

func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{store: t.store} }

type fakeTrips struct {
	store *fakeStore
}

func (r *fakeTrips) Create(_ context.Context, t *trip.Trip) error {
	r.store.trips[t.ID()] = copyTrip(t)
	return nil
}

func (r *fakeTrips) FindForUpdate(_ context.Context, id uuid.UUID) (*trip.Trip, error) {
	t, ok := r.store.trips[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "trip not found", nil)
	}
	return copyTrip(t), nil
}

func (r *fakeTrips) Save(_ context.Context, t *trip.Trip) error {
	if _, ok := r.store.trips[t.ID()]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "trip not found on update", nil)
	}
	r.store.trips[t.ID()] = copyTrip(t)
	return nil
}

type fakeBookings struct {
	store *fakeStore
}

func (r *fakeBookings) Create(_ context.Context, b *booking.Booking) error {
	r.store.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *fakeBookings) Find(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return copyBooking(b), nil
}

func (r *fakeBookings) Save(_ context.Context, b *booking.Booking) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found on update", nil)
	}
	r.store.bookings[b.ID()] = copyBooking(b)
	return nil
}

func (r *fakeBookings) CountActiveByTrip(_ context.Context, tripID uuid.UUID) (int, error) {
	n := 0
	for _, b := range r.store.bookings {
		if b.TripID() == tripID && b.Active() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookings) FindActiveBySubjectAndTrip(_ context.Context, subjectID, tripID uuid.UUID) (*booking.Booking, error) {
	for _, b := range r.store.bookings {
		if b.SubjectID() == subjectID && b.TripID() == tripID && b.Active() {
			return copyBooking(b), nil
		}
	}
	return nil, nil
}

type fakeLedger struct {
	store *fakeStore
}

func (r *fakeLedger) Append(_ context.Context, ev ledger.Event) (ledger.Event, error) {
	var max int64
	for _, e := range r.store.events {
		if e.AggregateID == ev.AggregateID && e.Seq > max {
			max = e.Seq
		}
	}
	ev.Seq = max + 1
	r.store.events = append(r.store.events, ev)
	return ev, nil
}

type fakeIdempotency struct {
	store *fakeStore
}

func (r *fakeIdempotency) TryInsert(_ context.Context, key, subjectID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey(key, subjectID)
	if _, ok := r.store.idem[k]; ok {
		return false, nil
	}
	r.store.idem[k] = &shared.IdempotencyRecord{
		Key:         key,
		SubjectID:   subjectID,
		Status:      "processing",
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *fakeIdempotency) Get(_ context.Context, key, subjectID uuid.UUID) (*shared.IdempotencyRecord, error) {
	record, ok := r.store.idem[idemKey(key, subjectID)]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency record not found", nil)
	}
	copied := *record
	return &copied, nil
}

func (r *fakeIdempotency) MarkSucceeded(_ context.Context, key, subjectID, bookingID uuid.UUID) error {
	record, ok := r.store.idem[idemKey(key, subjectID)]
	if !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "idempotency record not found on update", nil)
	}
	record.Status = "succeeded"
	record.ResultBookingID = &bookingID
	return nil
}

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) SubjectByID(_ context.Context, id uuid.UUID) (*eligibility.Subject, error) {
	subject, ok := r.store.subjects[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "subject not found", nil)
	}
	return &subject, nil
}

func (r *fakeReads) ProductByID(_ context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return &product, nil
}

func (r *fakeReads) SiteAdjustment(_ context.Context, siteName string) (*pricing.SiteAdjustment, error) {
	site, ok := r.store.sites[siteName]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "site adjustment not found", nil)
	}
	return &site, nil
}

func (r *fakeReads) PromoByCode(_ context.Context, code string) (*pricing.PromoCode, error) {
	promo, ok := r.store.promos[code]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "promo code not found", nil)
	}
	return &promo, nil
}

// fakeBookingQueries serves views straight from the store, standing in for the
// read side.
type fakeBookingQueries struct {
	store *fakeStore
}

func (q *fakeBookingQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.store.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return &queries.BookingView{
		ID:        b.ID(),
		TripID:    b.TripID(),
		SubjectID: b.SubjectID(),
		Status:    string(b.Status()),
		Price:     b.Price(),
		CreatedAt: b.CreatedAt(),
		DecidedAt: b.DecidedAt(),
	}, nil
}

func (q *fakeBookingQueries) ListBySubject(_ context.Context, subjectID uuid.UUID) ([]*queries.BookingListItem, error) {
	var items []*queries.BookingListItem
	for _, b := range q.store.bookings {
		if b.SubjectID() == subjectID {
			items = append(items, &queries.BookingListItem{
				ID:         b.ID(),
				TripID:     b.TripID(),
				Status:     string(b.Status()),
				TotalCents: b.Price().TotalCents,
				Currency:   b.Price().Currency,
				CreatedAt:  b.CreatedAt(),
			})
		}
	}
	return items, nil
}

func (q *fakeBookingQueries) GetDecision(_ context.Context, bookingID uuid.UUID) (*queries.DecisionView, error) {
	return nil, fmt.Errorf("not implemented in fake")
}
