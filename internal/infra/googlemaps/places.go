package googlemaps

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
)

// price_level 0..4 mapped onto the price bands used for budget filtering.
var priceLevels = [...]float64{0, 250, 1000, 3000, 6000}

// types that say nothing about what kind of attraction a place is.
var genericTypes = map[string]bool{
	"point_of_interest":  true,
	"establishment":      true,
	"tourist_attraction": true,
}

type placesResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []place `json:"results"`
}

type place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location latLng `json:"location"`
	} `json:"geometry"`
}

// SearchAttractions runs a Places Text Search for the query.
func (c *Client) SearchAttractions(ctx context.Context, q catalog.AttractionQuery) ([]catalog.Attraction, error) {
	params := url.Values{}
	params.Set("query", textQuery(q))
	if q.Center != nil && q.Center.Valid() {
		params.Set("location", q.Center.String())
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = 10000
		}
		params.Set("radius", strconv.Itoa(radius))
	}

	var resp placesResponse
	if err := c.get(ctx, "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	out := make([]catalog.Attraction, 0, len(resp.Results))
	for _, p := range resp.Results {
		out = append(out, toAttraction(p, q.Category))
	}
	return out, nil
}

func textQuery(q catalog.AttractionQuery) string {
	subject := "tourist attractions"
	if c := strings.TrimSpace(q.Category); c != "" {
		subject = c
	}
	if d := strings.TrimSpace(q.Destination); d != "" {
		return subject + " in " + d
	}
	return subject
}

func toAttraction(p place, requestedCategory string) catalog.Attraction {
	price := 0.0
	if p.PriceLevel != nil && *p.PriceLevel >= 0 && *p.PriceLevel < len(priceLevels) {
		price = priceLevels[*p.PriceLevel]
	}
	category := strings.TrimSpace(requestedCategory)
	var facilities []string
	for _, t := range p.Types {
		if genericTypes[t] {
			continue
		}
		label := strings.ReplaceAll(t, "_", " ")
		if category == "" {
			category = label
		}
		facilities = append(facilities, label)
	}
	if category == "" {
		category = "attraction"
	}
	return catalog.Attraction{
		ID:          catalog.ID(p.PlaceID),
		Name:        p.Name,
		Description: p.FormattedAddress,
		Category:    category,
		Rating:      p.Rating,
		Price:       price,
		Duration:    "1-2 hours",
		Coordinates: &geo.Coordinates{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
		Facilities:  facilities,
		Address:     p.FormattedAddress,
	}
}

var _ catalog.AttractionProvider = (*Client)(nil)
