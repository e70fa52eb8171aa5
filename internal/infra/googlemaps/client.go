// Package googlemaps talks to the Google Maps web services used for places,
// geocoding, distance matrix and directions.
package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/trip-planner/pkg/fallback"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client performs HTTP requests against the Google Maps APIs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. Without an API key every call returns
// fallback.ErrNotConfigured.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// statusOK and statusZeroResults are the only non-error API statuses.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// get calls path with params plus the key and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fallback.ErrNotConfigured
	}
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build google request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("google request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("google request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode google response: %w", err)
	}
	return nil
}

// checkStatus converts the API level status into an error.
func checkStatus(status, message string) error {
	switch status {
	case statusOK:
		return nil
	case statusZeroResults:
		return fallback.ErrNoResults
	default:
		if message != "" {
			return fmt.Errorf("google api status %s: %s", status, message)
		}
		return fmt.Errorf("google api status %s", status)
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type valueText struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}
