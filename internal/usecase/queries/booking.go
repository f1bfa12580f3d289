package queries

import (
	"context"
	"encoding/json"

	"tripcore/internal/domain/ledger"
	"tripcore/internal/pkg/errs"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindBySubjectID(ctx context.Context, subjectID uuid.UUID) ([]*BookingListItem, error)
}

type LedgerReadStore interface {
	Stream(ctx context.Context, aggregateID uuid.UUID) ([]ledger.Event, error)
	FindReservationCreated(ctx context.Context, bookingID uuid.UUID) (*ledger.Event, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*BookingListItem, error)
	// GetDecision returns the eligibility decision and frozen price exactly as
	// recorded when the booking was created; later pricing or rule changes
	// never alter this answer.
	GetDecision(ctx context.Context, bookingID uuid.UUID) (*DecisionView, error)
}

type bookingQueriesImpl struct {
	bookings BookingReadStore
	events   LedgerReadStore
}

func NewBookingQueries(bookings BookingReadStore, events LedgerReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, events: events}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.bookings.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*BookingListItem, error) {
	return q.bookings.FindBySubjectID(ctx, subjectID)
}

func (q *bookingQueriesImpl) GetDecision(ctx context.Context, bookingID uuid.UUID) (*DecisionView, error) {
	ev, err := q.events.FindReservationCreated(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var payload ledger.ReservationCreatedPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		return nil, errs.Wrap(err, "failed to decode reservation_created payload")
	}

	return &DecisionView{
		BookingID: payload.BookingID,
		TripID:    ev.AggregateID,
		SubjectID: payload.SubjectID,
		Decision:  payload.Decision,
		Price:     payload.Price,
		DecidedAt: ev.OccurredAt,
	}, nil
}
