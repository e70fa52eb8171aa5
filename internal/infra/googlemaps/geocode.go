package googlemaps

import (
	"context"
	"net/url"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to its first match.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode/json", params, &resp); err != nil {
		return geo.Coordinates{}, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return geo.Coordinates{}, err
	}
	if len(resp.Results) == 0 {
		return geo.Coordinates{}, fallback.ErrNoResults
	}
	loc := resp.Results[0].Geometry.Location
	return geo.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

var _ catalog.Geocoder = (*Client)(nil)
