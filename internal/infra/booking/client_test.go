package booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

func TestSearchHotels(t *testing.T) {
	var search map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "rapid-key" || r.Header.Get("X-RapidAPI-Host") != "booking.test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/v1/hotels/locations":
			_, _ = w.Write([]byte(`[{"dest_id":"-2106102","dest_type":"city","name":"New Delhi","latitude":28.6139,"longitude":77.209}]`))
		case "/v1/hotels/search":
			q := r.URL.Query()
			search = map[string]string{
				"dest_id":  q.Get("dest_id"),
				"checkin":  q.Get("checkin_date"),
				"checkout": q.Get("checkout_date"),
				"adults":   q.Get("adults_number"),
			}
			_, _ = w.Write([]byte(`{"result":[
				{"hotel_id":101,"hotel_name":"The Imperial","address":"Janpath","city":"New Delhi","review_score":9.0,
				 "min_total_price":245.5,"currencycode":"USD","latitude":28.6254,"longitude":77.2186,"distance_to_cc":"1.6","has_swimming_pool":1},
				{"hotel_id":"202","hotel_name":"Zostel","review_score":null,"min_total_price":18,
				 "currencycode":"USD","latitude":28.64,"longitude":77.22,"distance_to_cc":""}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := NewClient("rapid-key", "booking.test", srv.URL, time.Second)
	client.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	hotels, err := client.SearchHotels(context.Background(), catalog.HotelQuery{Destination: "Delhi", Adults: 2})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"dest_id":  "-2106102",
		"checkin":  "2024-03-11",
		"checkout": "2024-03-12",
		"adults":   "2",
	}, search)

	require.Len(t, hotels, 2)
	imperial := hotels[0]
	require.Equal(t, catalog.ID("101"), imperial.ID)
	require.Equal(t, 4.5, imperial.Rating)
	require.Equal(t, 245.5, imperial.Price)
	require.Equal(t, 1.6, imperial.DistanceFromCenter)
	require.Equal(t, "Janpath, New Delhi", imperial.Address)
	require.Equal(t, []string{"pool"}, imperial.Amenities)

	zostel := hotels[1]
	require.Equal(t, catalog.ID("202"), zostel.ID)
	require.Zero(t, zostel.Rating)
	require.Greater(t, zostel.DistanceFromCenter, 0.0, "distance computed from the destination centre")
}

func TestSearchHotels_Errors(t *testing.T) {
	_, err := NewClient("", "", "", 0).SearchHotels(context.Background(), catalog.HotelQuery{Destination: "Delhi"})
	require.True(t, errors.Is(err, fallback.ErrNotConfigured))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "Atlantis" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("rapid-key", "", srv.URL, time.Second)
	_, err = client.SearchHotels(context.Background(), catalog.HotelQuery{Destination: "Atlantis"})
	require.True(t, errors.Is(err, fallback.ErrNoResults))

	_, err = client.SearchHotels(context.Background(), catalog.HotelQuery{Destination: "Delhi"})
	require.ErrorContains(t, err, "status=429")
}
