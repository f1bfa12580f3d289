package queries

import (
	"context"

	"github.com/google/uuid"
)

type LedgerQueries interface {
	// ReadStream returns the aggregate's events in sequence order: a finite,
	// restartable read, not a live subscription.
	ReadStream(ctx context.Context, aggregateID uuid.UUID) ([]*EventView, error)
}

type ledgerQueriesImpl struct {
	events LedgerReadStore
}

func NewLedgerQueries(events LedgerReadStore) LedgerQueries {
	return &ledgerQueriesImpl{events: events}
}

func (q *ledgerQueriesImpl) ReadStream(ctx context.Context, aggregateID uuid.UUID) ([]*EventView, error) {
	events, err := q.events.Stream(ctx, aggregateID)
	if err != nil {
		return nil, err
	}

	views := make([]*EventView, len(events))
	for i, ev := range events {
		views[i] = &EventView{
			ID:          ev.ID,
			AggregateID: ev.AggregateID,
			Seq:         ev.Seq,
			Kind:        string(ev.Kind),
			ActorID:     ev.ActorID,
			BookingID:   ev.BookingID,
			OccurredAt:  ev.OccurredAt,
			Payload:     ev.Payload,
		}
	}
	return views, nil
}
