package repository

import (
	"context"

	"tripcore/internal/domain/ledger"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/shared"
)

type LedgerRepository struct {
	dbtx db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) shared.LedgerRepository {
	return &LedgerRepository{dbtx: dbtx}
}

// Append assigns the next sequence number with MAX(seq)+1. Callers hold the
// trip row lock, so two appends to the same stream never race; the unique
// (aggregate_id, seq) constraint backstops that assumption.
func (r *LedgerRepository) Append(ctx context.Context, ev ledger.Event) (ledger.Event, error) {
	const query = `
		INSERT INTO ledger_events (id, aggregate_id, seq, kind, actor_id, booking_id, occurred_at, payload)
		SELECT $1, $2, COALESCE(MAX(seq), 0) + 1, $3, $4, $5, $6, $7
		FROM ledger_events WHERE aggregate_id = $2
		RETURNING seq`

	err := r.dbtx.QueryRow(ctx, query,
		ev.ID, ev.AggregateID, string(ev.Kind), ev.ActorID, ev.BookingID, ev.OccurredAt, ev.Payload,
	).Scan(&ev.Seq)
	if err != nil {
		return ledger.Event{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to append ledger event", err)
	}
	return ev, nil
}
