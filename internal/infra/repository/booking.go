package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type BookingRepository struct {
	dbtx db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) shared.BookingRepository {
	return &BookingRepository{dbtx: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	priceJSON, err := json.Marshal(b.Price())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode price breakdown", err)
	}

	const query = `
		INSERT INTO bookings (id, trip_id, subject_id, status, price, total_cents, currency, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.dbtx.Exec(ctx, query,
		b.ID(), b.TripID(), b.SubjectID(), string(b.Status()),
		priceJSON, b.Price().TotalCents, b.Price().Currency, b.DecidedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "subject already booked on trip", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) Find(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	const query = `
		SELECT id, trip_id, subject_id, status, price, created_at, decided_at
		FROM bookings WHERE id = $1`

	b, err := scanBooking(r.dbtx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.dbtx.Exec(ctx, query, b.ID(), string(b.Status()))
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found on update", nil)
	}
	return nil
}

func (r *BookingRepository) CountActiveByTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	const query = `
		SELECT count(*) FROM bookings
		WHERE trip_id = $1 AND status <> 'cancelled'`

	var count int
	if err := r.dbtx.QueryRow(ctx, query, tripID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count active bookings", err)
	}
	return count, nil
}

func (r *BookingRepository) FindActiveBySubjectAndTrip(ctx context.Context, subjectID, tripID uuid.UUID) (*booking.Booking, error) {
	const query = `
		SELECT id, trip_id, subject_id, status, price, created_at, decided_at
		FROM bookings
		WHERE subject_id = $1 AND trip_id = $2 AND status <> 'cancelled'`

	b, err := scanBooking(r.dbtx.QueryRow(ctx, query, subjectID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking", err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, tripID, subjectID uuid.UUID
		status                string
		priceJSON             []byte
		createdAt, decidedAt  time.Time
	)
	if err := row.Scan(&id, &tripID, &subjectID, &status, &priceJSON, &createdAt, &decidedAt); err != nil {
		return nil, err
	}

	var price pricing.Breakdown
	if err := json.Unmarshal(priceJSON, &price); err != nil {
		return nil, err
	}

	return booking.Reconstruct(id, tripID, subjectID, booking.Status(status), price, createdAt, decidedAt), nil
}
