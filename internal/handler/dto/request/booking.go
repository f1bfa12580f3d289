package request

import (
	"strings"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	TripID    uuid.UUID `json:"trip_id" binding:"required"`
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
	PromoCode *string   `json:"promo_code,omitempty"`
	// DeferConfirmation leaves the booking in pending_payment; the seat is held
	// either way.
	DeferConfirmation bool `json:"defer_confirmation,omitempty"`
}

func (r CreateBookingRequest) GetPromoCode() *string {
	if r.PromoCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.PromoCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}
