package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/geo"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

func TestSearchAttractions_LiveResultIsCached(t *testing.T) {
	places := &stubPlaces{items: []Attraction{{ID: "p1", Name: "Fort", Rating: 4.5}}}
	svc := newServiceUnderTest(t, places, &stubHotels{})

	q := AttractionQuery{Destination: "Jaipur"}
	first, err := svc.SearchAttractions(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, "google_places", first.Source)
	require.False(t, first.Degraded)
	require.Len(t, first.Data, 1)

	second, err := svc.SearchAttractions(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, places.calls)
}

func TestSearchAttractions_FallsBackToStaticCity(t *testing.T) {
	places := &stubPlaces{err: errors.New("quota exceeded")}
	svc := newServiceUnderTest(t, places, &stubHotels{})

	res, err := svc.SearchAttractions(context.Background(), AttractionQuery{Destination: "New Delhi", Category: "historical"})
	require.NoError(t, err)
	require.Equal(t, fallback.SourceFallback, res.Source)
	require.True(t, res.Degraded)
	require.NotEmpty(t, res.Data)
	for _, a := range res.Data {
		require.Equal(t, "historical", a.Category)
		require.True(t, a.HasLocation())
	}

	_, err = svc.SearchAttractions(context.Background(), AttractionQuery{Destination: "New Delhi", Category: "historical"})
	require.NoError(t, err)
	require.Equal(t, 2, places.calls, "degraded results must not be cached")
}

func TestSearchAttractions_MockForUnknownDestination(t *testing.T) {
	svc := newServiceUnderTest(t, &stubPlaces{}, &stubHotels{})
	center := geo.Coordinates{Lat: 10, Lng: 20}

	res, err := svc.SearchAttractions(context.Background(), AttractionQuery{Destination: "Atlantis", Center: &center})
	require.NoError(t, err)
	require.Equal(t, fallback.SourceMock, res.Source)
	require.Len(t, res.Data, len(mockAttractionTemplates))
	for _, a := range res.Data {
		require.True(t, a.HasLocation())
		require.Less(t, geo.DistanceKm(center, *a.Coordinates), 3.0)
	}

	again, err := svc.SearchAttractions(context.Background(), AttractionQuery{Destination: "Atlantis", Center: &center})
	require.NoError(t, err)
	require.Equal(t, res.Data[0].ID, again.Data[0].ID)
}

func TestSearchAttractions_MockUsesGeocodedCenter(t *testing.T) {
	geocoder := &stubGeocoder{at: geo.Coordinates{Lat: -8.65, Lng: 115.22}}
	svc := newServiceWithGeocoder(t, &stubPlaces{err: errors.New("quota exceeded")}, &stubHotels{}, geocoder)

	res, err := svc.SearchAttractions(context.Background(), AttractionQuery{Destination: "Denpasar"})
	require.NoError(t, err)
	require.Equal(t, fallback.SourceMock, res.Source)
	for _, a := range res.Data {
		require.True(t, a.HasLocation())
		require.Less(t, geo.DistanceKm(geocoder.at, *a.Coordinates), 3.0)
	}

	center, ok := svc.Center(context.Background(), "Denpasar")
	require.True(t, ok)
	require.Equal(t, geocoder.at, center)
	require.Equal(t, 1, geocoder.calls, "geocoded centres are cached")

	center, ok = svc.Center(context.Background(), "Delhi")
	require.True(t, ok)
	require.InDelta(t, 28.6, center.Lat, 0.1)
	require.Equal(t, 1, geocoder.calls, "known cities never hit the geocoder")

	geocoder.err = errors.New("ZERO_RESULTS")
	_, ok = svc.Center(context.Background(), "Nowhere")
	require.False(t, ok)
}

func TestSearchAttractions_Validation(t *testing.T) {
	svc := newServiceUnderTest(t, &stubPlaces{}, &stubHotels{})

	_, err := svc.SearchAttractions(context.Background(), AttractionQuery{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	bad := geo.Coordinates{Lat: 200, Lng: 0}
	_, err = svc.SearchAttractions(context.Background(), AttractionQuery{Center: &bad})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSearchHotels_FallbackComputesDistance(t *testing.T) {
	svc := newServiceUnderTest(t, &stubPlaces{}, &stubHotels{err: errors.New("rapidapi down")})

	res, err := svc.SearchHotels(context.Background(), HotelQuery{Destination: "Delhi"})
	require.NoError(t, err)
	require.Equal(t, fallback.SourceFallback, res.Source)
	require.NotEmpty(t, res.Data)
	for _, h := range res.Data {
		require.Equal(t, "INR", h.Currency)
		require.Greater(t, h.DistanceFromCenter, 0.0)
	}
}

func TestSearchHotels_Validation(t *testing.T) {
	svc := newServiceUnderTest(t, &stubPlaces{}, &stubHotels{})

	_, err := svc.SearchHotels(context.Background(), HotelQuery{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.SearchHotels(context.Background(), HotelQuery{Destination: "Paris", CheckIn: "2025-05-03", CheckOut: "2025-05-01"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestSearchHotels_LivePassesDefaults(t *testing.T) {
	hotels := &stubHotels{items: []Accommodation{{ID: "h1", Name: "Hotel"}}}
	svc := newServiceUnderTest(t, &stubPlaces{}, hotels)

	res, err := svc.SearchHotels(context.Background(), HotelQuery{Destination: "Rome"})
	require.NoError(t, err)
	require.Equal(t, "booking", res.Source)
	require.Equal(t, 2, hotels.last.Adults)
	require.Equal(t, 1, hotels.last.Rooms)
}

func TestParseDurationMinutes(t *testing.T) {
	cases := map[string]int{
		"2-3 hours":  120,
		"1 hour":     60,
		"45 minutes": 45,
		"30min":      30,
		"":           DefaultVisitMinutes,
		"half a day": DefaultVisitMinutes,
		"0 hours":    DefaultVisitMinutes,
	}
	for input, want := range cases {
		require.Equal(t, want, ParseDurationMinutes(input), input)
	}
}

func TestID_UnmarshalNumberOrString(t *testing.T) {
	var items []struct {
		ID ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1},{"id":"abc"},{"id":null}]`), &items))
	require.Equal(t, ID("1"), items[0].ID)
	require.Equal(t, ID("abc"), items[1].ID)
	require.Equal(t, ID(""), items[2].ID)
}

func newServiceUnderTest(t *testing.T, places AttractionProvider, hotels HotelProvider) Service {
	t.Helper()
	return newServiceWithGeocoder(t, places, hotels, nil)
}

func newServiceWithGeocoder(t *testing.T, places AttractionProvider, hotels HotelProvider, geocoder Geocoder) Service {
	t.Helper()
	dataset, err := LoadDataset()
	require.NoError(t, err)
	logger := newTestLogger()
	guards := Guards{
		Places: fallback.NewGuard("google_places", fallback.BreakerSettings{}, nil, logger),
		Hotels: fallback.NewGuard("booking", fallback.BreakerSettings{}, nil, logger),
	}
	return NewService(Config{CacheTTL: time.Minute}, places, hotels, geocoder, newMapCache(), guards, dataset, logger)
}

type stubPlaces struct {
	items []Attraction
	err   error
	calls int
}

func (s *stubPlaces) SearchAttractions(_ context.Context, _ AttractionQuery) ([]Attraction, error) {
	s.calls++
	return s.items, s.err
}

type stubHotels struct {
	items []Accommodation
	err   error
	last  HotelQuery
}

func (s *stubHotels) SearchHotels(_ context.Context, q HotelQuery) ([]Accommodation, error) {
	s.last = q
	return s.items, s.err
}

type stubGeocoder struct {
	at    geo.Coordinates
	err   error
	calls int
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (geo.Coordinates, error) {
	s.calls++
	return s.at, s.err
}

type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
