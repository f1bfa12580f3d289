package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"tripcore/internal/domain/trip"
	reqdto "tripcore/internal/handler/dto/request"
	resdto "tripcore/internal/handler/dto/response"
	"tripcore/internal/handler/middleware"
	"tripcore/internal/pkg/errs"
	"tripcore/internal/usecase/commands"
	"tripcore/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TripHandler struct {
	tripCommands  commands.TripCommands
	tripQueries   queries.TripQueries
	ledgerQueries queries.LedgerQueries
}

func NewTripHandler(tripCommands commands.TripCommands, tripQueries queries.TripQueries, ledgerQueries queries.LedgerQueries) *TripHandler {
	return &TripHandler{
		tripCommands:  tripCommands,
		tripQueries:   tripQueries,
		ledgerQueries: ledgerQueries,
	}
}

// @Summary Schedule trip
// @Description Schedule a new trip with fixed capacity and departure
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ScheduleTripRequest true "Trip definition"
// @Success 201 {object} resdto.TripResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips [post]
func (h *TripHandler) ScheduleTrip(c *gin.Context) {
	actorID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.ScheduleTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	params := commands.ScheduleTripParams{
		ProductID: req.ProductID,
		SiteName:  req.SiteName,
		Capacity:  req.Capacity,
		StartsAt:  req.StartsAt,
	}

	tripID, err := h.tripCommands.Schedule(c.Request.Context(), params, actorID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, errs.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip parameters"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	view, err := h.tripQueries.GetByID(c.Request.Context(), tripID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, resdto.FromTripView(view))
}

// @Summary Get trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} resdto.TripResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /trips/{id} [get]
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID format"})
		return
	}

	view, err := h.tripQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTripView(view))
}

// @Summary List upcoming trips
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {array} resdto.TripResponse
// @Failure 401 {object} map[string]string
// @Router /trips [get]
func (h *TripHandler) ListUpcomingTrips(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	views, err := h.tripQueries.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTripViews(views))
}

// @Summary Start trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} resdto.TripResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{id}/start [post]
func (h *TripHandler) StartTrip(c *gin.Context) {
	h.applyTransition(c, func(ctx context.Context, tripID, actorID uuid.UUID) error {
		return h.tripCommands.Start(ctx, tripID, actorID)
	})
}

// @Summary Complete trip
// @Tags trips
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {object} resdto.TripResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{id}/complete [post]
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	h.applyTransition(c, func(ctx context.Context, tripID, actorID uuid.UUID) error {
		return h.tripCommands.Complete(ctx, tripID, actorID)
	})
}

// @Summary Cancel trip
// @Description Cancel the trip itself; existing bookings are handled separately
// @Tags trips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Param request body reqdto.CancelTripRequest false "Cancellation reason"
// @Success 200 {object} resdto.TripResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /trips/{id}/cancel [post]
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req reqdto.CancelTripRequest
	_ = c.ShouldBindJSON(&req)

	h.applyTransition(c, func(ctx context.Context, tripID, actorID uuid.UUID) error {
		return h.tripCommands.Cancel(ctx, tripID, actorID, req.Reason)
	})
}

// @Summary Read trip ledger
// @Description Read the trip's full event stream in sequence order
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trip ID"
// @Success 200 {array} resdto.EventResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /ledger/{id} [get]
func (h *TripHandler) ReadLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid aggregate ID format"})
		return
	}

	views, err := h.ledgerQueries.ReadStream(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromEventViews(views))
}

func (h *TripHandler) applyTransition(c *gin.Context, op func(ctx context.Context, tripID, actorID uuid.UUID) error) {
	actorID, ok := middleware.GetAccountID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID format"})
		return
	}

	if opErr := op(c.Request.Context(), id, actorID); opErr != nil {
		var invalidTransition *trip.InvalidTransitionError
		switch {
		case errors.As(opErr, &invalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Invalid trip state transition",
				"from":  string(invalidTransition.From),
				"to":    string(invalidTransition.To),
			})
		case errors.Is(opErr, errs.ErrTripNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		case errors.Is(opErr, errs.ErrContention):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too much contention, retry later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	view, err := h.tripQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTripView(view))
}
