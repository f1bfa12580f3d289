package response

import (
	"encoding/json"
	"time"

	"tripcore/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type EventResponse struct {
	ID          uuid.UUID       `json:"id"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Seq         int64           `json:"seq"`
	Kind        string          `json:"kind"`
	ActorID     uuid.UUID       `json:"actor_id"`
	BookingID   *uuid.UUID      `json:"booking_id,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

func FromEventViews(views []*queries.EventView) []*EventResponse {
	responses := make([]*EventResponse, len(views))
	for i, view := range views {
		var resp EventResponse
		_ = copier.Copy(&resp, view)
		responses[i] = &resp
	}
	return responses
}
