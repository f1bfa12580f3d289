package api

import (
	"context"
	"errors"
	"net/http"

	"tripcore/internal/domain/booking"
	"tripcore/internal/domain/eligibility"
	reqdto "tripcore/internal/handler/dto/request"
	resdto "tripcore/internal/handler/dto/response"
	"tripcore/internal/handler/middleware"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/usecase/commands"
	"tripcore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Reserve a seat on a trip with an idempotency key
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.ReserveResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actorID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.ReserveParams{
		TripID:            req.TripID,
		SubjectID:         req.SubjectID,
		PromoCode:         req.GetPromoCode(),
		DeferConfirmation: req.DeferConfirmation,
	}

	result, err := h.bookingCommands.Reserve(c.Request.Context(), params, actorID, idempotencyKey)
	if err != nil {
		h.respondReserveError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromReserveResult(result))
}

func (h *BookingHandler) respondReserveError(c *gin.Context, err error) {
	var notEligible *eligibility.NotEligibleError
	if errors.As(err, &notEligible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Subject is not eligible for this trip",
			"decision": notEligible.Decision,
		})
		return
	}

	switch {
	case errors.Is(err, errs.ErrTripNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
	case errors.Is(err, errs.ErrSubjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
	case errors.Is(err, errs.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, errs.ErrPromoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
	case errors.Is(err, errs.ErrTripNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "Trip is not open for reservations"})
	case errors.Is(err, errs.ErrReservationClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Reservations are closed for this trip"})
	case errors.Is(err, errs.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Trip is fully booked"})
	case errors.Is(err, errs.ErrAlreadyReserved):
		c.JSON(http.StatusConflict, gin.H{"error": "Subject already has an active booking for this trip"})
	case errors.Is(err, errs.ErrIdempotencyKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key header is required"})
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking request is currently being processed"})
	case errors.Is(err, errs.ErrIdempotencyMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "Idempotency key reused with different parameters"})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking parameters"})
	case errors.Is(err, errs.ErrContention):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too much contention, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Booking not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings for a subject
// @Description List bookings belonging to a subject, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param subject_id query string true "Subject ID"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Query("subject_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid subject ID format",
		})
		return
	}

	items, err := h.bookingQueries.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingListItems(items))
}

// @Summary Get booking decision
// @Description Get the eligibility decision and frozen price recorded at reservation time
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.DecisionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/decision [get]
func (h *BookingHandler) GetDecision(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	view, err := h.bookingQueries.GetDecision(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Decision not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDecisionView(view))
}

// @Summary Confirm booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Confirm)
}

// @Summary Check in booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckInBooking(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.CheckIn)
}

// @Summary Complete booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.Complete)
}

// @Summary Mark booking no-show
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/no-show [post]
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.applyTransition(c, h.bookingCommands.MarkNoShow)
}

// @Summary Cancel booking
// @Description Cancel a booking and release its seat; cancelling twice is a no-op
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actorID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	var req reqdto.CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	view, err := h.bookingCommands.Cancel(c.Request.Context(), id, actorID, req.Reason)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) applyTransition(
	c *gin.Context,
	op func(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error),
) {
	actorID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID format"})
		return
	}

	view, err := op(c.Request.Context(), id, actorID)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

func (h *BookingHandler) respondTransitionError(c *gin.Context, err error) {
	var invalidTransition *booking.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid booking state transition",
			"from":  string(invalidTransition.From),
			"to":    string(invalidTransition.To),
		})
		return
	}

	switch {
	case errors.Is(err, errs.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, errs.ErrTripNotOpen):
		c.JSON(http.StatusConflict, gin.H{"error": "Trip no longer accepts booking changes"})
	case errors.Is(err, errs.ErrContention):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too much contention, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader("Idempotency-Key")
	if raw == "" {
		return uuid.Nil, errs.ErrIdempotencyKeyRequired
	}
	key, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.New("Idempotency-Key must be a valid UUID")
	}
	return key, nil
}
