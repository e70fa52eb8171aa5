// Package booking searches hotels through the Booking.com RapidAPI listing.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/util"
)

const (
	defaultHost    = "booking-com.p.rapidapi.com"
	defaultBaseURL = "https://" + defaultHost
	maxHotels      = 20
)

// Client performs hotel lookups.
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds an API client. Without an API key every call returns
// fallback.ErrNotConfigured.
func NewClient(apiKey, host, baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(host) == "" {
		host = defaultHost
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		host:       strings.TrimSpace(host),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type location struct {
	DestID    string  `json:"dest_id"`
	DestType  string  `json:"dest_type"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Result []hotel `json:"result"`
}

type hotel struct {
	HotelID       json.Number `json:"hotel_id"`
	HotelName     string      `json:"hotel_name"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	ReviewScore   *float64    `json:"review_score"`
	MinTotalPrice float64     `json:"min_total_price"`
	CurrencyCode  string      `json:"currencycode"`
	Latitude      float64     `json:"latitude"`
	Longitude     float64     `json:"longitude"`
	DistanceToCC  string      `json:"distance_to_cc"`
	HasPool       int         `json:"has_swimming_pool"`
	Breakfast     int         `json:"hotel_include_breakfast"`
}

// SearchHotels resolves the destination, then searches available hotels.
func (c *Client) SearchHotels(ctx context.Context, q catalog.HotelQuery) ([]catalog.Accommodation, error) {
	if c.apiKey == "" {
		return nil, fallback.ErrNotConfigured
	}
	loc, err := c.lookupDestination(ctx, q.Destination)
	if err != nil {
		return nil, err
	}

	checkIn, checkOut := q.CheckIn, q.CheckOut
	if checkIn == "" || checkOut == "" {
		tomorrow := c.now().UTC().AddDate(0, 0, 1)
		checkIn = util.FormatDate(tomorrow)
		checkOut = util.FormatDate(tomorrow.AddDate(0, 0, 1))
	}

	params := url.Values{}
	params.Set("dest_id", loc.DestID)
	params.Set("dest_type", loc.DestType)
	params.Set("checkin_date", checkIn)
	params.Set("checkout_date", checkOut)
	params.Set("adults_number", strconv.Itoa(max(q.Adults, 1)))
	params.Set("room_number", strconv.Itoa(max(q.Rooms, 1)))
	params.Set("order_by", "popularity")
	params.Set("units", "metric")
	params.Set("locale", "en-gb")
	params.Set("filter_by_currency", "USD")

	var resp searchResponse
	if err := c.get(ctx, "/v1/hotels/search", params, &resp); err != nil {
		return nil, err
	}

	center := geo.Coordinates{Lat: loc.Latitude, Lng: loc.Longitude}
	out := make([]catalog.Accommodation, 0, min(len(resp.Result), maxHotels))
	for _, h := range resp.Result {
		if len(out) == maxHotels {
			break
		}
		out = append(out, toAccommodation(h, center))
	}
	return out, nil
}

func (c *Client) lookupDestination(ctx context.Context, destination string) (location, error) {
	params := url.Values{}
	params.Set("name", destination)
	params.Set("locale", "en-gb")

	var locations []location
	if err := c.get(ctx, "/v1/hotels/locations", params, &locations); err != nil {
		return location{}, err
	}
	for _, l := range locations {
		if l.DestID != "" {
			return l, nil
		}
	}
	return location{}, fallback.ErrNoResults
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build booking request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("booking request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("booking request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode booking response: %w", err)
	}
	return nil
}

func toAccommodation(h hotel, center geo.Coordinates) catalog.Accommodation {
	acc := catalog.Accommodation{
		ID:       catalog.ID(h.HotelID.String()),
		Name:     h.HotelName,
		Price:    math.Round(h.MinTotalPrice*100) / 100,
		Currency: h.CurrencyCode,
		Address:  joinNonEmpty(h.Address, h.City),
	}
	// review scores are out of 10
	if h.ReviewScore != nil {
		acc.Rating = math.Round(*h.ReviewScore*5) / 10
	}
	at := geo.Coordinates{Lat: h.Latitude, Lng: h.Longitude}
	if at.Valid() && (at.Lat != 0 || at.Lng != 0) {
		acc.Coordinates = &at
	}
	if d, err := strconv.ParseFloat(strings.TrimSpace(h.DistanceToCC), 64); err == nil {
		acc.DistanceFromCenter = math.Round(d*10) / 10
	} else if acc.Coordinates != nil && center.Valid() {
		acc.DistanceFromCenter = math.Round(geo.DistanceKm(center, at)*10) / 10
	}
	if h.HasPool == 1 {
		acc.Amenities = append(acc.Amenities, "pool")
	}
	if h.Breakfast == 1 {
		acc.Amenities = append(acc.Amenities, "breakfast")
	}
	return acc
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

var _ catalog.HotelProvider = (*Client)(nil)
