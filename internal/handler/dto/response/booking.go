package response

import (
	"time"

	"tripcore/internal/domain/eligibility"
	"tripcore/internal/domain/pricing"
	"tripcore/internal/usecase/commands"
	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID        uuid.UUID         `json:"id"`
	TripID    uuid.UUID         `json:"trip_id"`
	SubjectID uuid.UUID         `json:"subject_id"`
	Status    string            `json:"status"`
	Price     pricing.Breakdown `json:"price"`
	CreatedAt time.Time         `json:"created_at"`
	DecidedAt time.Time         `json:"decided_at"`
}

type BookingListResponse struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReserveResponse struct {
	Booking  *BookingResponse      `json:"booking"`
	Decision *eligibility.Decision `json:"decision,omitempty"`
	Replayed bool                  `json:"replayed"`
}

type DecisionResponse struct {
	BookingID uuid.UUID            `json:"booking_id"`
	TripID    uuid.UUID            `json:"trip_id"`
	SubjectID uuid.UUID            `json:"subject_id"`
	Decision  eligibility.Decision `json:"decision"`
	Price     pricing.Breakdown    `json:"price"`
	DecidedAt time.Time            `json:"decided_at"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingListItems(items []*queries.BookingListItem) []*BookingListResponse {
	responses := make([]*BookingListResponse, len(items))
	for i, item := range items {
		var resp BookingListResponse
		_ = copier.Copy(&resp, item)
		responses[i] = &resp
	}
	return responses
}

func FromReserveResult(result *commands.ReserveResult) *ReserveResponse {
	resp := &ReserveResponse{
		Booking:  FromBookingView(result.Booking),
		Replayed: result.Replayed,
	}
	// Replays serve the stored booking; the decision lives on the decision
	// endpoint.
	if !result.Replayed {
		decision := result.Decision
		resp.Decision = &decision
	}
	return resp
}

func FromDecisionView(view *queries.DecisionView) *DecisionResponse {
	var resp DecisionResponse
	_ = copier.Copy(&resp, view)
	return &resp
}
