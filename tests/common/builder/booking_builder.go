//go:build unit || e2e

package builder

import (
	"time"

	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/pricing"
	reqdto "tripcore/internal/handler/dto/request"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	id        uuid.UUID
	tripID    uuid.UUID
	subjectID uuid.UUID
	status    string
	price     pricing.Breakdown
	createdAt time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		id:        uuid.New(),
		tripID:    uuid.New(),
		subjectID: uuid.New(),
		status:    "confirmed",
		price:     pricing.Breakdown{BaseCents: 10000, TotalCents: 10000, Currency: "USD"},
		createdAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.id = id
	return b
}

func (b *BookingBuilder) WithTripID(id uuid.UUID) *BookingBuilder {
	b.tripID = id
	return b
}

func (b *BookingBuilder) WithSubjectID(id uuid.UUID) *BookingBuilder {
	b.subjectID = id
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.status = status
	return b
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:        b.id,
		TripID:    b.tripID,
		SubjectID: b.subjectID,
		Status:    b.status,
		Price:     b.price,
		CreatedAt: b.createdAt,
		DecidedAt: b.createdAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:         b.id,
		TripID:     b.tripID,
		Status:     b.status,
		TotalCents: b.price.TotalCents,
		Currency:   b.price.Currency,
		CreatedAt:  b.createdAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		TripID:    b.tripID,
		SubjectID: b.subjectID,
	}
}

func (b *BookingBuilder) BuildDecisionView() *queries.DecisionView {
	return &queries.DecisionView{
		BookingID: b.id,
		TripID:    b.tripID,
		SubjectID: b.subjectID,
		Decision:  eligibility.Decision{Eligible: true, EvaluatedAt: b.createdAt},
		Price:     b.price,
		DecidedAt: b.createdAt,
	}
}
