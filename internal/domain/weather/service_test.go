package weather

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

var paris = geo.Coordinates{Lat: 48.8566, Lng: 2.3522}

func TestForecast_LiveIsCached(t *testing.T) {
	provider := &stubProvider{forecast: Forecast{Days: []Day{{Date: "2024-06-01", TempMax: 24}}}}
	cache := newMapCache()
	svc := NewService(Config{}, provider, cache, newGuard(), newTestLogger())

	res, err := svc.Forecast(context.Background(), paris, 1)
	require.NoError(t, err)
	require.False(t, res.Degraded)
	require.Equal(t, SourceOpenMeteo, res.Source)
	require.Equal(t, 24.0, res.Data.Days[0].TempMax)

	res, err = svc.Forecast(context.Background(), paris, 1)
	require.NoError(t, err)
	require.Equal(t, SourceOpenMeteo, res.Source)
	require.Equal(t, 1, provider.calls)
	require.Equal(t, 1, provider.lastDays)
}

func TestForecast_FallsBackToMock(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	cache := newMapCache()
	svc := NewService(Config{}, provider, cache, newGuard(), newTestLogger())

	res, err := svc.Forecast(context.Background(), paris, 0)
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Equal(t, fallback.SourceMock, res.Source)
	require.Len(t, res.Data.Days, DefaultDays)
	for _, d := range res.Data.Days {
		require.Greater(t, d.TempMax, d.TempMin)
		require.Equal(t, "Partly cloudy", d.Condition)
	}
	require.Empty(t, cache.items, "degraded forecasts are not cached")

	unconfigured := NewService(Config{}, nil, nil, nil, newTestLogger())
	res, err = unconfigured.Forecast(context.Background(), paris, 3)
	require.NoError(t, err)
	require.True(t, res.Degraded)
	require.Len(t, res.Data.Days, 3)
}

func TestForecast_Validation(t *testing.T) {
	svc := NewService(Config{}, &stubProvider{}, nil, nil, newTestLogger())

	_, err := svc.Forecast(context.Background(), geo.Coordinates{Lat: 91, Lng: 0}, 3)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Forecast(context.Background(), paris, MaxDays+1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Forecast(context.Background(), paris, -1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestCondition(t *testing.T) {
	require.Equal(t, "Clear sky", Condition(0))
	require.Equal(t, "Fog", Condition(45))
	require.Equal(t, "Snow", Condition(73))
	require.Equal(t, "Thunderstorm", Condition(96))
	require.Equal(t, "Unknown", Condition(20))
}

type stubProvider struct {
	forecast Forecast
	err      error
	calls    int
	lastDays int
}

func (s *stubProvider) Daily(_ context.Context, at geo.Coordinates, days int) (Forecast, error) {
	s.calls++
	s.lastDays = days
	if s.err != nil {
		return Forecast{}, s.err
	}
	out := s.forecast
	out.Location = at
	return out, nil
}

type mapCache struct {
	items map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

func newGuard() *fallback.Guard {
	return fallback.NewGuard(SourceOpenMeteo, fallback.BreakerSettings{}, nil, newTestLogger())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
