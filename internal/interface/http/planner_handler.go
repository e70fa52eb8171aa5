package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/domain/budget"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/itinerary"
	"github.com/yanqian/trip-planner/internal/domain/route"
)

// AllocateBudget splits a trip budget across spending categories.
func (h *Handler) AllocateBudget(c *gin.Context) {
	var req budget.Request
	if !h.bindJSON(c, &req) {
		return
	}
	plan, err := h.budgetSvc.Allocate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}

// OptimizeRoute orders attractions with the nearest-neighbor heuristic.
func (h *Handler) OptimizeRoute(c *gin.Context) {
	var req route.OptimizeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.routeSvc.Optimize(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

type routeDetailsParams struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
	Mode  string `form:"mode"`
}

// RouteDetails returns directions between two lat,lng pairs.
func (h *Handler) RouteDetails(c *gin.Context) {
	var params routeDetailsParams
	if !h.bindQuery(c, &params) {
		return
	}
	start, err := geo.ParseCoordinates(params.Start)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "start: "+err.Error(), err))
		return
	}
	end, err := geo.ParseCoordinates(params.End)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "end: "+err.Error(), err))
		return
	}
	res, err := h.routeSvc.Details(c.Request.Context(), route.DetailsRequest{Start: start, End: end, Mode: params.Mode})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, routeDetailsResponse{Route: res.Data, Source: res.Source, Degraded: res.Degraded})
}

type routeDetailsResponse struct {
	Route    route.Details `json:"route"`
	Source   string        `json:"source"`
	Degraded bool          `json:"degraded"`
}

// RouteDistances measures consecutive legs between points.
func (h *Handler) RouteDistances(c *gin.Context) {
	var req route.DistanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.routeSvc.Distances(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// GenerateItinerary builds a day-by-day plan.
func (h *Handler) GenerateItinerary(c *gin.Context) {
	var req itinerary.GenerateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	plan, err := h.itinerarySvc.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}

// OptimizeItinerary rearranges an existing plan.
func (h *Handler) OptimizeItinerary(c *gin.Context) {
	var req itinerary.OptimizeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	plan, err := h.itinerarySvc.Optimize(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, plan)
}
