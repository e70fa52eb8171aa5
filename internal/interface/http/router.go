package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/infra/config"
	"github.com/yanqian/trip-planner/pkg/metrics"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiter *RateLimiter, reg *metrics.Registry, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		requestLogger(logger, reg),
		gin.CustomRecovery(recoveryHandler(logger, cfg.App.Development())),
		corsMiddleware(cfg.HTTP.CORS.AllowOrigins),
		errorHandlingMiddleware(logger),
	)

	router.GET("/metrics", gin.WrapH(reg.Handler()))

	api := router.Group("/api")
	api.GET("/health", handler.Health)
	api.Use(rateLimitMiddleware(limiter, logger))
	{
		api.POST("/budget/allocate", handler.AllocateBudget)

		api.POST("/routes/optimize", handler.OptimizeRoute)
		api.GET("/routes/details", handler.RouteDetails)
		api.POST("/routes/distance", handler.RouteDistances)

		api.POST("/itinerary/generate", handler.GenerateItinerary)
		api.POST("/itinerary/optimize", handler.OptimizeItinerary)

		api.GET("/attractions/search", handler.SearchAttractions)
		api.POST("/attractions/recommendations", handler.RecommendAttractions)
		api.GET("/hotels/search", handler.SearchHotels)
		api.GET("/weather", handler.Weather)
		api.POST("/assistant/chat", handler.Chat)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/refresh", handler.Refresh)
		authGroup.GET("/me", authMiddleware(handler.authSvc), handler.Me)

		saved := api.Group("/itineraries", authMiddleware(handler.authSvc))
		saved.POST("", handler.SaveItinerary)
		saved.GET("", handler.ListItineraries)
		saved.GET("/:id", handler.GetItinerary)
		saved.DELETE("/:id", handler.DeleteItinerary)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "route not found", nil))
	})

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
