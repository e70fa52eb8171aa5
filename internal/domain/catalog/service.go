package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/trip-planner/internal/domain/geo"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/util"
)

const (
	defaultAttractionLimit = 20
	maxAttractionLimit     = 60
)

// AttractionProvider searches a live places API.
type AttractionProvider interface {
	SearchAttractions(ctx context.Context, q AttractionQuery) ([]Attraction, error)
}

// HotelProvider searches a live hotel inventory.
type HotelProvider interface {
	SearchHotels(ctx context.Context, q HotelQuery) ([]Accommodation, error)
}

// Geocoder resolves a free-text destination to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinates, error)
}

// Cache stores search results keyed by their serialized query.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Config tunes search behaviour.
type Config struct {
	CacheTTL time.Duration
}

// Guards holds one circuit breaker per upstream provider.
type Guards struct {
	Places *fallback.Guard
	Hotels *fallback.Guard
}

// Service exposes attraction and hotel search with static fallbacks.
type Service interface {
	SearchAttractions(ctx context.Context, q AttractionQuery) (fallback.Result[[]Attraction], error)
	SearchHotels(ctx context.Context, q HotelQuery) (fallback.Result[[]Accommodation], error)
	Center(ctx context.Context, destination string) (geo.Coordinates, bool)
}

type service struct {
	cfg      Config
	places   AttractionProvider
	hotels   HotelProvider
	geocoder Geocoder
	cache    Cache
	guards   Guards
	dataset  *Dataset
	logger   *slog.Logger
}

// NewService constructs a catalog Service.
func NewService(cfg Config, places AttractionProvider, hotels HotelProvider, geocoder Geocoder, cache Cache, guards Guards, dataset *Dataset, logger *slog.Logger) Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &service{
		cfg:      cfg,
		places:   places,
		hotels:   hotels,
		geocoder: geocoder,
		cache:    cache,
		guards:   guards,
		dataset:  dataset,
		logger:   logger.With("component", "catalog.service"),
	}
}

func (s *service) SearchAttractions(ctx context.Context, q AttractionQuery) (fallback.Result[[]Attraction], error) {
	q.Destination = strings.TrimSpace(q.Destination)
	q.Category = strings.TrimSpace(q.Category)
	if q.Destination == "" && q.Center == nil {
		return fallback.Result[[]Attraction]{}, apperrors.Invalid("destination or coordinates are required")
	}
	if q.Center != nil && !q.Center.Valid() {
		return fallback.Result[[]Attraction]{}, apperrors.Invalid("coordinates are out of range")
	}
	if q.Limit <= 0 {
		q.Limit = defaultAttractionLimit
	}
	if q.Limit > maxAttractionLimit {
		q.Limit = maxAttractionLimit
	}

	key := cacheKey("attractions", q)
	var cached fallback.Result[[]Attraction]
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	res := fallback.Run(ctx, s.guards.Places, "search_attractions",
		func(ctx context.Context) ([]Attraction, error) {
			if s.places == nil {
				return nil, fallback.ErrNotConfigured
			}
			items, err := s.places.SearchAttractions(ctx, q)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, fallback.ErrNoResults
			}
			return limit(items, q.Limit), nil
		},
		func(ctx context.Context) fallback.Result[[]Attraction] {
			if q.Center == nil {
				if center, ok := s.Center(ctx, q.Destination); ok {
					q.Center = &center
				}
			}
			return s.dataset.Attractions(q)
		},
	)
	if !res.Degraded {
		s.store(ctx, key, res)
	}
	return res, nil
}

func (s *service) SearchHotels(ctx context.Context, q HotelQuery) (fallback.Result[[]Accommodation], error) {
	q.Destination = strings.TrimSpace(q.Destination)
	if q.Destination == "" {
		return fallback.Result[[]Accommodation]{}, apperrors.Invalid("destination is required")
	}
	if q.Adults <= 0 {
		q.Adults = 2
	}
	if q.Rooms <= 0 {
		q.Rooms = 1
	}
	if q.CheckIn != "" && q.CheckOut != "" {
		in, errIn := util.ParseDate(q.CheckIn)
		out, errOut := util.ParseDate(q.CheckOut)
		if errIn != nil || errOut != nil {
			return fallback.Result[[]Accommodation]{}, apperrors.Invalid("checkIn and checkOut must be YYYY-MM-DD")
		}
		if !out.After(in) {
			return fallback.Result[[]Accommodation]{}, apperrors.Invalid("checkOut must be after checkIn")
		}
	}

	key := cacheKey("hotels", q)
	var cached fallback.Result[[]Accommodation]
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	res := fallback.Run(ctx, s.guards.Hotels, "search_hotels",
		func(ctx context.Context) ([]Accommodation, error) {
			if s.hotels == nil {
				return nil, fallback.ErrNotConfigured
			}
			items, err := s.hotels.SearchHotels(ctx, q)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, fallback.ErrNoResults
			}
			return items, nil
		},
		func(context.Context) fallback.Result[[]Accommodation] {
			return s.dataset.Hotels(q)
		},
	)
	if !res.Degraded {
		s.store(ctx, key, res)
	}
	return res, nil
}

// Center resolves a destination centre from the curated dataset, then the geocoder.
func (s *service) Center(ctx context.Context, destination string) (geo.Coordinates, bool) {
	if c, ok := s.dataset.Center(destination); ok {
		return c, true
	}
	destination = strings.TrimSpace(destination)
	if s.geocoder == nil || destination == "" {
		return geo.Coordinates{}, false
	}
	key := cacheKey("geocode", destination)
	var cached geo.Coordinates
	if s.lookup(ctx, key, &cached) && cached.Valid() {
		return cached, true
	}
	res := fallback.Run(ctx, s.guards.Places, "geocode",
		func(ctx context.Context) (geo.Coordinates, error) {
			c, err := s.geocoder.Geocode(ctx, destination)
			if err != nil {
				return geo.Coordinates{}, err
			}
			if !c.Valid() {
				return geo.Coordinates{}, fallback.ErrNoResults
			}
			return c, nil
		},
		func(context.Context) fallback.Result[geo.Coordinates] {
			return fallback.Degraded(fallback.SourceMock, geo.Coordinates{})
		},
	)
	if res.Degraded {
		return geo.Coordinates{}, false
	}
	s.store(ctx, key, res.Data)
	return res.Data, true
}

func (s *service) lookup(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (s *service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func cacheKey(prefix string, query any) string {
	payload, err := json.Marshal(query)
	if err != nil {
		return prefix + ":unkeyed"
	}
	return prefix + ":" + strings.ToLower(string(payload))
}
