package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/trip-planner/internal/domain/assistant"
	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/recommend"
)

type attractionSearchParams struct {
	Destination string   `form:"destination"`
	Category    string   `form:"category"`
	Lat         *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lng         *float64 `form:"lng" binding:"omitempty,gte=-180,lte=180"`
	Radius      int      `form:"radius" binding:"omitempty,min=1,max=50000"`
	Limit       int      `form:"limit" binding:"omitempty,min=1,max=60"`
	Budget      string   `form:"budget" binding:"omitempty,oneof=low medium high luxury"`
}

// SearchAttractions lists points of interest for a destination or area.
func (h *Handler) SearchAttractions(c *gin.Context) {
	var params attractionSearchParams
	if !h.bindQuery(c, &params) {
		return
	}
	if (params.Lat == nil) != (params.Lng == nil) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "lat and lng must be supplied together", nil))
		return
	}
	query := catalog.AttractionQuery{
		Destination:  params.Destination,
		Category:     params.Category,
		RadiusMeters: params.Radius,
		Limit:        params.Limit,
	}
	if params.Lat != nil {
		query.Center = &geo.Coordinates{Lat: *params.Lat, Lng: *params.Lng}
	}
	res, err := h.catalogSvc.SearchAttractions(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}
	if params.Budget != "" {
		res.Data = recommend.FilterByBudget(res.Data, params.Budget)
	}
	respond(c, http.StatusOK, res)
}

// RecommendAttractions ranks attractions against the user's interests.
func (h *Handler) RecommendAttractions(c *gin.Context) {
	var req recommend.Request
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.recommendSvc.Recommend(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

type hotelSearchParams struct {
	Destination string `form:"destination" binding:"required"`
	CheckIn     string `form:"checkIn"`
	CheckOut    string `form:"checkOut"`
	Adults      int    `form:"adults" binding:"omitempty,min=1,max=30"`
	Rooms       int    `form:"rooms" binding:"omitempty,min=1,max=30"`
	Cluster     bool   `form:"cluster"`
}

// SearchHotels lists accommodation, optionally grouped into k-means clusters.
func (h *Handler) SearchHotels(c *gin.Context) {
	var params hotelSearchParams
	if !h.bindQuery(c, &params) {
		return
	}
	res, err := h.catalogSvc.SearchHotels(c.Request.Context(), catalog.HotelQuery{
		Destination: params.Destination,
		CheckIn:     params.CheckIn,
		CheckOut:    params.CheckOut,
		Adults:      params.Adults,
		Rooms:       params.Rooms,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if params.Cluster {
		res.Data = h.recommendSvc.ClusterHotels(c.Request.Context(), res.Data)
	}
	respond(c, http.StatusOK, res)
}

type weatherParams struct {
	Lat  *float64 `form:"lat" binding:"required"`
	Lng  *float64 `form:"lng" binding:"required"`
	Days int      `form:"days"`
}

// Weather returns a daily forecast.
func (h *Handler) Weather(c *gin.Context) {
	var params weatherParams
	if !h.bindQuery(c, &params) {
		return
	}
	res, err := h.weatherSvc.Forecast(c.Request.Context(), geo.Coordinates{Lat: *params.Lat, Lng: *params.Lng}, params.Days)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Chat answers a travel question.
func (h *Handler) Chat(c *gin.Context) {
	var req assistant.ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.assistantSvc.Chat(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}
