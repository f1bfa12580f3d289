package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tripcore/internal/domain/account"
	"tripcore/internal/handler/api"
	"tripcore/internal/handler/middleware"
	"tripcore/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	tripHandler *api.TripHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, bookingHandler, tripHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	bookingHandler *api.BookingHandler,
	tripHandler *api.TripHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me,
					Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.ListBookings},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodGet, Path: "/:id/decision", Handler: bookingHandler.GetDecision},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.ConfirmBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
			})

			// Check-in and outcome transitions are staff actions.
			staff := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(account.RoleGuide)}
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "/:id/check-in", Handler: bookingHandler.CheckInBooking, Mw: staff},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.CompleteBooking, Mw: staff},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: bookingHandler.MarkNoShow, Mw: staff},
			})
		}

		trips := apiGroup.Group("/trips")
		trips.Use(authMiddleware.RequireAuth())
		{
			addRoutes(trips, []route{
				{Method: http.MethodGet, Path: "", Handler: tripHandler.ListUpcomingTrips},
				{Method: http.MethodGet, Path: "/:id", Handler: tripHandler.GetTrip},
			})

			operator := []gin.HandlerFunc{authMiddleware.RequireRoleAtLeast(account.RoleOperator)}
			addRoutes(trips, []route{
				{Method: http.MethodPost, Path: "", Handler: tripHandler.ScheduleTrip, Mw: operator},
				{Method: http.MethodPost, Path: "/:id/start", Handler: tripHandler.StartTrip, Mw: operator},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: tripHandler.CompleteTrip, Mw: operator},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: tripHandler.CancelTrip, Mw: operator},
			})
		}

		ledger := apiGroup.Group("/ledger")
		ledger.Use(authMiddleware.RequireAuth())
		{
			addRoutes(ledger, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: tripHandler.ReadLedger},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
