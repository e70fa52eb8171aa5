package recommend

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

// SourceRequest tags recommendations computed over caller-supplied attractions.
const SourceRequest = "request"

// AttractionSearcher finds candidates when the caller supplies none.
type AttractionSearcher interface {
	SearchAttractions(ctx context.Context, q catalog.AttractionQuery) (fallback.Result[[]catalog.Attraction], error)
}

// UserPreferences drive scoring and the budget filter.
type UserPreferences struct {
	Interests []string `json:"interests"`
	Budget    string   `json:"budget,omitempty"`
}

// Request is the input of Service.Recommend.
type Request struct {
	UserPreferences UserPreferences      `json:"userPreferences"`
	Attractions     []catalog.Attraction `json:"attractions,omitempty"`
	Destination     string               `json:"destination,omitempty"`
	Limit           int                  `json:"limit,omitempty"`
}

// Response is serialized back to API consumers.
type Response struct {
	Recommendations []Scored `json:"recommendations"`
	Source          string   `json:"source"`
	Degraded        bool     `json:"degraded"`
}

// Config tunes ranking and clustering.
type Config struct {
	Limit      int
	Clusters   int
	Iterations int
}

// Service ranks attractions and groups hotels.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
	ClusterHotels(ctx context.Context, hotels []catalog.Accommodation) []catalog.Accommodation
}

type service struct {
	cfg      Config
	searcher AttractionSearcher
	logger   *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService constructs the recommend Service. rng seeds cluster
// initialisation; pass a seeded source for reproducible groupings.
func NewService(cfg Config, searcher AttractionSearcher, rng *rand.Rand, logger *slog.Logger) Service {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Clusters <= 0 {
		cfg.Clusters = DefaultClusters
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	return &service{
		cfg:      cfg,
		searcher: searcher,
		rng:      rng,
		logger:   logger.With("component", "recommend.service"),
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	candidates := req.Attractions
	source := SourceRequest
	degraded := false

	if len(candidates) == 0 {
		destination := strings.TrimSpace(req.Destination)
		if destination == "" {
			return Response{}, apperrors.Invalid("attractions or destination is required")
		}
		res, err := s.searcher.SearchAttractions(ctx, catalog.AttractionQuery{Destination: destination})
		if err != nil {
			return Response{}, err
		}
		candidates, source, degraded = res.Data, res.Source, res.Degraded
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Limit
	}
	filtered := FilterByBudget(candidates, req.UserPreferences.Budget)
	ranked := Rank(req.UserPreferences.Interests, filtered, limit)

	s.logger.Debug("recommendations ranked",
		"candidates", len(candidates),
		"filtered", len(filtered),
		"returned", len(ranked),
		"source", source,
	)
	return Response{Recommendations: ranked, Source: source, Degraded: degraded}, nil
}

func (s *service) ClusterHotels(_ context.Context, hotels []catalog.Accommodation) []catalog.Accommodation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ClusterAccommodations(hotels, s.cfg.Clusters, s.rng, s.cfg.Iterations)
}
