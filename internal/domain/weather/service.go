package weather

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/trip-planner/internal/domain/geo"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/util"
)

// Provider fetches a live daily forecast.
type Provider interface {
	Daily(ctx context.Context, at geo.Coordinates, days int) (Forecast, error)
}

// Cache stores forecasts keyed by rounded location and horizon.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Config tunes forecast caching.
type Config struct {
	CacheTTL time.Duration
}

// Service returns forecasts that degrade to a flat mock series.
type Service interface {
	Forecast(ctx context.Context, at geo.Coordinates, days int) (fallback.Result[Forecast], error)
}

type service struct {
	cfg      Config
	provider Provider
	cache    Cache
	guard    *fallback.Guard
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a weather Service.
func NewService(cfg Config, provider Provider, cache Cache, guard *fallback.Guard, logger *slog.Logger) Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return &service{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		guard:    guard,
		logger:   logger.With("component", "weather.service"),
		now:      time.Now,
	}
}

func (s *service) Forecast(ctx context.Context, at geo.Coordinates, days int) (fallback.Result[Forecast], error) {
	if !at.Valid() {
		return fallback.Result[Forecast]{}, apperrors.Invalid("lat and lng must be valid coordinates")
	}
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > MaxDays {
		return fallback.Result[Forecast]{}, apperrors.Invalid(fmt.Sprintf("days must be between 1 and %d", MaxDays))
	}

	// two decimals is roughly 1 km, close enough to share a forecast
	key := fmt.Sprintf("weather:%.2f:%.2f:%d", at.Lat, at.Lng, days)
	if s.cache != nil {
		var cached fallback.Result[Forecast]
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		} else if found {
			return cached, nil
		}
	}

	res := fallback.Run(ctx, s.guard, "daily_forecast",
		func(ctx context.Context) (Forecast, error) {
			if s.provider == nil {
				return Forecast{}, fallback.ErrNotConfigured
			}
			forecast, err := s.provider.Daily(ctx, at, days)
			if err != nil {
				return Forecast{}, err
			}
			if len(forecast.Days) == 0 {
				return Forecast{}, fallback.ErrNoResults
			}
			return forecast, nil
		},
		func(context.Context) fallback.Result[Forecast] {
			return fallback.Degraded(fallback.SourceMock, s.mock(at, days))
		},
	)
	if !res.Degraded && s.cache != nil {
		if err := s.cache.Set(ctx, key, res, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return res, nil
}

// mock produces a mild, dry series shifted slightly by latitude.
func (s *service) mock(at geo.Coordinates, days int) Forecast {
	base := 26 - math.Abs(at.Lat)/5
	start := s.now().UTC()
	out := make([]Day, days)
	for i := range out {
		out[i] = Day{
			Date:                     util.FormatDate(start.AddDate(0, 0, i)),
			TempMax:                  math.Round(base + 5),
			TempMin:                  math.Round(base - 3),
			PrecipitationProbability: 10,
			WeatherCode:              1,
			Condition:                Condition(1),
		}
	}
	return Forecast{Location: at, Units: "celsius", Days: out}
}
