package shared

import (
	"context"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/ledger"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/domain/trip"

	"github.com/google/uuid"
)

// UnitOfWork runs command-side work inside one storage transaction. The
// capacity check and the booking write must commit or roll back together;
// Within is the only place that guarantee lives.
type UnitOfWork interface {
	// Within: full transaction for write operations with bounded retry on
	// transient contention.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: collaborator lookups for validation outside transactions.
	CommandReads() CommandReads
}

type Tx interface {
	Trips() TripRepository
	Bookings() BookingRepository
	Ledger() LedgerRepository
	Idempotency() IdempotencyRepository
	Reads() CommandReads
}

type TripRepository interface {
	Create(ctx context.Context, t *trip.Trip) error
	// FindForUpdate acquires an exclusive row lock on the trip. Every capacity
	// mutation and every ledger append for the trip's stream happens under
	// this lock.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	Save(ctx context.Context, t *trip.Trip) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Find(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Save(ctx context.Context, b *booking.Booking) error
	CountActiveByTrip(ctx context.Context, tripID uuid.UUID) (int, error)
	// FindActiveBySubjectAndTrip returns nil when the subject has no active
	// booking on the trip.
	FindActiveBySubjectAndTrip(ctx context.Context, subjectID, tripID uuid.UUID) (*booking.Booking, error)
}

type LedgerRepository interface {
	// Append assigns the next per-aggregate sequence number and persists the
	// event. There is no update and no delete.
	Append(ctx context.Context, ev ledger.Event) (ledger.Event, error)
}

type IdempotencyRepository interface {
	// TryInsert claims the key; claimed=false means another request holds or
	// held it and Get decides between replay and conflict.
	TryInsert(ctx context.Context, key, subjectID uuid.UUID, requestHash string, expiresAt time.Time) (claimed bool, err error)
	Get(ctx context.Context, key, subjectID uuid.UUID) (*IdempotencyRecord, error)
	MarkSucceeded(ctx context.Context, key, subjectID, bookingID uuid.UUID) error
}

// CommandReads are write-side snapshots of data owned by external
// collaborators (identity, catalog). Keeping them behind a port keeps the
// engine honest about what it does not own.
type CommandReads interface {
	SubjectByID(ctx context.Context, id uuid.UUID) (*eligibility.Subject, error)
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	SiteAdjustment(ctx context.Context, siteName string) (*pricing.SiteAdjustment, error)
	PromoByCode(ctx context.Context, code string) (*pricing.PromoCode, error)
}

// ProductSnapshot is the catalog's published definition as of now: pricing
// inputs plus the immutable requirement set a reservation is judged against.
type ProductSnapshot struct {
	ID                  uuid.UUID
	Name                string
	Currency            string
	BaseCents           int64
	TierDiscountPercent float64
	TierDiscountMin     eligibility.CertTier
	Requirements        []eligibility.Requirement
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	SubjectID       uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}
