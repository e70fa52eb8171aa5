package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/domain/itinerary"
)

// SaveItinerary stores a generated plan for the caller.
func (h *Handler) SaveItinerary(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	var req itinerary.SaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	saved, err := h.itinerarySvc.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, saved)
}

// ListItineraries returns the caller's saved plans.
func (h *Handler) ListItineraries(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	items, err := h.itinerarySvc.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"itineraries": items, "count": len(items)})
}

// GetItinerary returns one saved plan.
func (h *Handler) GetItinerary(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	saved, err := h.itinerarySvc.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, saved)
}

// DeleteItinerary removes one saved plan.
func (h *Handler) DeleteItinerary(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.itinerarySvc.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
