package request

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleTripRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	SiteName  string    `json:"site_name" binding:"required"`
	Capacity  int       `json:"capacity" binding:"required,min=1"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
}

type CancelTripRequest struct {
	Reason string `json:"reason,omitempty"`
}
