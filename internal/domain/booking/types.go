package booking

import (
	"fmt"

	"github.com/google/uuid"
)

type Status string

const (
	// StatusPendingPayment is the short-lived pre-commit state, entered only
	// when the caller separates "reserve the seat" from "confirm payment".
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCheckedIn      Status = "checked_in"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusNoShow         Status = "no_show"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusCheckedIn,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

type InvalidTransitionError struct {
	BookingID uuid.UUID
	From      Status
	To        Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition %s -> %s (booking %s)", e.From, e.To, e.BookingID)
}

var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:      {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:      {StatusCompleted, StatusCancelled, StatusNoShow},
}

func canTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
