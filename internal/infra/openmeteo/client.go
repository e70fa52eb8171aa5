package openmeteo

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

	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/weather"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const dailyFields = "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weathercode"

// Client fetches daily forecasts from Open-Meteo. No key is required.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Daily retrieves a daily forecast for the given location.
func (c *Client) Daily(ctx context.Context, at geo.Coordinates, days int) (weather.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	params.Set("daily", dailyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Forecast{}, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}
	if raw.Error {
		return weather.Forecast{}, fmt.Errorf("open-meteo error: %s", raw.Reason)
	}
	return normalize(raw, at), nil
}

type apiResponse struct {
	Error     bool    `json:"error"`
	Reason    string  `json:"reason"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Daily     daily   `json:"daily"`
}

type daily struct {
	Time                 []string   `json:"time"`
	TempMax              []*float64 `json:"temperature_2m_max"`
	TempMin              []*float64 `json:"temperature_2m_min"`
	PrecipitationMaxProb []*float64 `json:"precipitation_probability_max"`
	WeatherCode          []*int     `json:"weathercode"`
}

// normalize zips the parallel daily arrays; missing values read as zero.
func normalize(raw apiResponse, requested geo.Coordinates) weather.Forecast {
	days := make([]weather.Day, 0, len(raw.Daily.Time))
	for i, date := range raw.Daily.Time {
		code := intAt(raw.Daily.WeatherCode, i)
		days = append(days, weather.Day{
			Date:                     date,
			TempMax:                  floatAt(raw.Daily.TempMax, i),
			TempMin:                  floatAt(raw.Daily.TempMin, i),
			PrecipitationProbability: int(math.Round(floatAt(raw.Daily.PrecipitationMaxProb, i))),
			WeatherCode:              code,
			Condition:                weather.Condition(code),
		})
	}
	location := requested
	if raw.Latitude != 0 || raw.Longitude != 0 {
		location = geo.Coordinates{Lat: raw.Latitude, Lng: raw.Longitude}
	}
	return weather.Forecast{
		Location: location,
		Timezone: raw.Timezone,
		Units:    "celsius",
		Days:     days,
	}
}

func floatAt(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

func intAt(values []*int, i int) int {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

var _ weather.Provider = (*Client)(nil)
