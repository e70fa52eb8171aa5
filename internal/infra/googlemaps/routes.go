package googlemaps

import (
	"context"
	"fmt"
	"html"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/route"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string    `json:"status"`
			Distance valueText `json:"distance"`
			Duration valueText `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Measure asks the Distance Matrix API for a single origin/destination pair.
func (c *Client) Measure(ctx context.Context, from, to geo.Coordinates, mode string) (route.Leg, error) {
	params := url.Values{}
	params.Set("origins", from.String())
	params.Set("destinations", to.String())
	params.Set("mode", apiMode(mode))

	var resp matrixResponse
	if err := c.get(ctx, "/distancematrix/json", params, &resp); err != nil {
		return route.Leg{}, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return route.Leg{}, err
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return route.Leg{}, fallback.ErrNoResults
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != statusOK {
		return route.Leg{}, fmt.Errorf("distance matrix element status %s", el.Status)
	}
	return route.Leg{
		DistanceKm:      math.Round(el.Distance.Value/100) / 10,
		DurationMinutes: int(math.Round(el.Duration.Value / 60)),
	}, nil
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance valueText `json:"distance"`
			Duration valueText `json:"duration"`
			Steps    []struct {
				HTMLInstructions string `json:"html_instructions"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

var tags = regexp.MustCompile(`<[^>]*>`)

// Directions returns turn-by-turn instructions for the first suggested route.
func (c *Client) Directions(ctx context.Context, from, to geo.Coordinates, mode string) (route.Details, error) {
	params := url.Values{}
	params.Set("origin", from.String())
	params.Set("destination", to.String())
	params.Set("mode", apiMode(mode))

	var resp directionsResponse
	if err := c.get(ctx, "/directions/json", params, &resp); err != nil {
		return route.Details{}, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return route.Details{}, err
	}
	if len(resp.Routes) == 0 {
		return route.Details{}, fallback.ErrNoResults
	}
	r := resp.Routes[0]
	var (
		meters, seconds float64
		instructions    []string
	)
	for _, leg := range r.Legs {
		meters += leg.Distance.Value
		seconds += leg.Duration.Value
		for _, step := range leg.Steps {
			text := strings.Join(strings.Fields(html.UnescapeString(tags.ReplaceAllString(step.HTMLInstructions, " "))), " ")
			if text != "" {
				instructions = append(instructions, text)
			}
		}
	}
	return route.Details{
		Distance:     math.Round(meters/100) / 10,
		Duration:     int(math.Round(seconds / 60)),
		Mode:         apiMode(mode),
		Instructions: instructions,
		Polyline:     r.OverviewPolyline.Points,
	}, nil
}

func apiMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case geo.ModeWalking, geo.ModeBicycling, geo.ModeTransit:
		return strings.ToLower(strings.TrimSpace(mode))
	default:
		return geo.ModeDriving
	}
}

var (
	_ route.DistanceMatrix     = (*Client)(nil)
	_ route.DirectionsProvider = (*Client)(nil)
)
