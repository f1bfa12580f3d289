package response

import (
	"time"

	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TripResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	SiteName       string    `json:"site_name"`
	Capacity       int       `json:"capacity"`
	StartsAt       time.Time `json:"starts_at"`
	Status         string    `json:"status"`
	Version        int64     `json:"version"`
	ActiveBookings int       `json:"active_bookings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromTripView(view *queries.TripView) *TripResponse {
	var resp TripResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromTripViews(views []*queries.TripView) []*TripResponse {
	responses := make([]*TripResponse, len(views))
	for i, view := range views {
		responses[i] = FromTripView(view)
	}
	return responses
}
