package readstore

import (
	"context"
	"errors"

	"tripcore/internal/domain/ledger"
	"tripcore/internal/infra"
	"tripcore/internal/infra/db"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LedgerReadStore struct {
	dbtx db.DBTX
}

func NewLedgerReadStore(dbtx db.DBTX) queries.LedgerReadStore {
	return &LedgerReadStore{dbtx: dbtx}
}

func (s *LedgerReadStore) Stream(ctx context.Context, aggregateID uuid.UUID) ([]ledger.Event, error) {
	const query = `
		SELECT id, aggregate_id, seq, kind, actor_id, booking_id, occurred_at, payload
		FROM ledger_events WHERE aggregate_id = $1
		ORDER BY seq`

	rows, err := s.dbtx.Query(ctx, query, aggregateID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query ledger stream", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ledger event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate ledger events", err)
	}
	return events, nil
}

func (s *LedgerReadStore) FindReservationCreated(ctx context.Context, bookingID uuid.UUID) (*ledger.Event, error) {
	const query = `
		SELECT id, aggregate_id, seq, kind, actor_id, booking_id, occurred_at, payload
		FROM ledger_events
		WHERE booking_id = $1 AND kind = $2`

	ev, err := scanEvent(s.dbtx.QueryRow(ctx, query, bookingID, string(ledger.KindReservationCreated)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "reservation decision not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan ledger event", err)
	}
	return &ev, nil
}

func scanEvent(row pgx.Row) (ledger.Event, error) {
	var ev ledger.Event
	var kind string
	err := row.Scan(&ev.ID, &ev.AggregateID, &ev.Seq, &kind, &ev.ActorID, &ev.BookingID, &ev.OccurredAt, &ev.Payload)
	if err != nil {
		return ledger.Event{}, err
	}
	ev.Kind = ledger.Kind(kind)
	return ev, nil
}
