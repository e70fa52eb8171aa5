package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/domain/assistant"
	"github.com/yanqian/trip-planner/internal/domain/auth"
	"github.com/yanqian/trip-planner/internal/domain/budget"
	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/domain/recommend"
	"github.com/yanqian/trip-planner/internal/domain/route"
	"github.com/yanqian/trip-planner/internal/domain/weather"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Budget    budget.Service
	Routes    route.Service
	Itinerary itinerary.Service
	Catalog   catalog.Service
	Recommend recommend.Service
	Weather   weather.Service
	Assistant assistant.Service
	Auth      auth.Service
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	budgetSvc    budget.Service
	routeSvc     route.Service
	itinerarySvc itinerary.Service
	catalogSvc   catalog.Service
	recommendSvc recommend.Service
	weatherSvc   weather.Service
	assistantSvc assistant.Service
	authSvc      auth.Service
	logger       *slog.Logger
	started      time.Time
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svcs Services, logger *slog.Logger) *Handler {
	return &Handler{
		budgetSvc:    svcs.Budget,
		routeSvc:     svcs.Routes,
		itinerarySvc: svcs.Itinerary,
		catalogSvc:   svcs.Catalog,
		recommendSvc: svcs.Recommend,
		weatherSvc:   svcs.Weather,
		assistantSvc: svcs.Assistant,
		authSvc:      svcs.Auth,
		logger:       logger.With("component", "http.handler"),
		started:      time.Now(),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":        "ok",
		"service":       "trip-planner",
		"uptimeSeconds": int(time.Since(h.started).Seconds()),
	})
}

// fail funnels domain errors into the error middleware.
func (h *Handler) fail(c *gin.Context, err error) {
	abortWithError(c, fromDomainError(err))
}

func (h *Handler) bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		abortWithError(c, bindError(err))
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		abortWithError(c, bindError(err))
		return false
	}
	return true
}
