package errs

import "errors"

// Sentinel errors shared across usecase layers. Rejections that need to carry
// structured payloads (eligibility decisions, state transitions) are typed
// errors in their domain packages; everything else is matched with errors.Is.
var (
	// Trip errors
	ErrTripNotFound = errors.New("trip not found")
	ErrTripNotOpen  = errors.New("trip is not open for reservations")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrCapacityExceeded  = errors.New("trip capacity exceeded")
	ErrAlreadyReserved   = errors.New("subject already has an active booking for this trip")
	ErrReservationClosed = errors.New("reservations are closed for this trip")

	// Collaborator lookups
	ErrSubjectNotFound = errors.New("subject not found")
	ErrProductNotFound = errors.New("product not found")
	ErrPromoNotFound   = errors.New("promo code not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotent request in progress")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different request")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Validation / operation errors
	ErrValidation              = errors.New("validation error")
	ErrContention              = errors.New("storage contention, retry later")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
