package repository

import (
	"context"
	"errors"
	"time"

	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type IdempotencyRepository struct {
	dbtx db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) shared.IdempotencyRepository {
	return &IdempotencyRepository{dbtx: dbtx}
}

// TryInsert claims the key outside any reservation transaction so the claim
// survives a rollback; a failed reservation leaves a processing record that
// expires rather than silently freeing the key for a different request body.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, subjectID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	const query = `
		INSERT INTO idempotency_keys (key, subject_id, status, request_hash, expires_at)
		VALUES ($1, $2, 'processing', $3, $4)
		ON CONFLICT (key, subject_id) DO NOTHING`

	tag, err := r.dbtx.Exec(ctx, query, key, subjectID, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to claim idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, subjectID uuid.UUID) (*shared.IdempotencyRecord, error) {
	const query = `
		SELECT key, subject_id, status, request_hash, result_booking_id, expires_at
		FROM idempotency_keys WHERE key = $1 AND subject_id = $2`

	var record shared.IdempotencyRecord
	err := r.dbtx.QueryRow(ctx, query, key, subjectID).Scan(
		&record.Key, &record.SubjectID, &record.Status, &record.RequestHash,
		&record.ResultBookingID, &record.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "idempotency record not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan idempotency record", err)
	}
	return &record, nil
}

func (r *IdempotencyRepository) MarkSucceeded(ctx context.Context, key, subjectID, bookingID uuid.UUID) error {
	const query = `
		UPDATE idempotency_keys
		SET status = 'succeeded', result_booking_id = $3
		WHERE key = $1 AND subject_id = $2`

	tag, err := r.dbtx.Exec(ctx, query, key, subjectID, bookingID)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark idempotency key succeeded", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "idempotency record not found on update", nil)
	}
	return nil
}
