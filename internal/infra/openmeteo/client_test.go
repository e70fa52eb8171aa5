package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/geo"
)

func TestClient_Daily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "28.6139", q.Get("latitude"))
		require.Equal(t, "77.209", q.Get("longitude"))
		require.Equal(t, "2", q.Get("forecast_days"))
		require.Equal(t, dailyFields, q.Get("daily"))
		_, _ = w.Write([]byte(`{
			"latitude": 28.625,
			"longitude": 77.25,
			"timezone": "Asia/Kolkata",
			"daily": {
				"time": ["2024-05-01", "2024-05-02"],
				"temperature_2m_max": [39.4, null],
				"temperature_2m_min": [27.1, 26.0],
				"precipitation_probability_max": [4, 62.6],
				"weathercode": [0, 63]
			}
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	forecast, err := client.Daily(context.Background(), geo.Coordinates{Lat: 28.6139, Lng: 77.209}, 2)
	require.NoError(t, err)
	require.Equal(t, "Asia/Kolkata", forecast.Timezone)
	require.Equal(t, geo.Coordinates{Lat: 28.625, Lng: 77.25}, forecast.Location)
	require.Len(t, forecast.Days, 2)
	require.Equal(t, "2024-05-01", forecast.Days[0].Date)
	require.Equal(t, 39.4, forecast.Days[0].TempMax)
	require.Equal(t, "Clear sky", forecast.Days[0].Condition)
	require.Zero(t, forecast.Days[1].TempMax)
	require.Equal(t, 63, forecast.Days[1].PrecipitationProbability)
	require.Equal(t, "Rain", forecast.Days[1].Condition)
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("forecast_days") == "99" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":true,"reason":"forecast_days out of range"}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":true,"reason":"latitude invalid"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	_, err := client.Daily(context.Background(), geo.Coordinates{Lat: 1, Lng: 1}, 99)
	require.ErrorContains(t, err, "status=400")

	_, err = client.Daily(context.Background(), geo.Coordinates{Lat: 1, Lng: 1}, 3)
	require.ErrorContains(t, err, "latitude invalid")
}
