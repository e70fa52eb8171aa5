package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
	"github.com/yanqian/trip-planner/pkg/util"
)

// AttractionSearcher supplies candidates when the request carries none.
type AttractionSearcher interface {
	SearchAttractions(ctx context.Context, q catalog.AttractionQuery) (fallback.Result[[]catalog.Attraction], error)
}

// Repository persists saved itineraries per user.
type Repository interface {
	Create(ctx context.Context, it SavedItinerary) (SavedItinerary, error)
	Get(ctx context.Context, userID, id string) (SavedItinerary, bool, error)
	List(ctx context.Context, userID string) ([]SavedItinerary, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// Config bounds generation.
type Config struct {
	MaxDays         int
	MaxVisitsPerDay int
}

// Service generates, rearranges and stores itineraries.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (GeneratedItinerary, error)
	Optimize(ctx context.Context, req OptimizeRequest) (GeneratedItinerary, error)
	Save(ctx context.Context, userID string, req SaveRequest) (SavedItinerary, error)
	Get(ctx context.Context, userID, id string) (SavedItinerary, error)
	List(ctx context.Context, userID string) ([]SavedItinerary, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	cfg       Config
	scheduler *Scheduler
	searcher  AttractionSearcher
	repo      Repository
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the itinerary domain.
func NewService(cfg Config, scheduler *Scheduler, searcher AttractionSearcher, repo Repository, logger *slog.Logger) Service {
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = 30
	}
	if cfg.MaxVisitsPerDay <= 0 {
		cfg.MaxVisitsPerDay = 20
	}
	return &service{
		cfg:       cfg,
		scheduler: scheduler,
		searcher:  searcher,
		repo:      repo,
		logger:    logger.With("component", "itinerary.service"),
		now:       time.Now,
	}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (GeneratedItinerary, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return GeneratedItinerary{}, err
	}
	days := util.DaysInclusive(start, end)
	if days > s.cfg.MaxDays {
		return GeneratedItinerary{}, apperrors.Invalid(fmt.Sprintf("trip cannot exceed %d days", s.cfg.MaxDays))
	}

	destination := strings.TrimSpace(req.Destination)
	attractions := req.Attractions
	source, degraded := SourceRequest, false
	if len(attractions) == 0 {
		if destination == "" {
			return GeneratedItinerary{}, apperrors.Invalid("destination is required when no attractions are supplied")
		}
		res, err := s.searcher.SearchAttractions(ctx, catalog.AttractionQuery{Destination: destination})
		if err != nil {
			return GeneratedItinerary{}, err
		}
		attractions, source, degraded = res.Data, res.Source, res.Degraded
	}

	plan := s.scheduler.Schedule(ctx, attractions, req.Accommodation, days, req.UserPreferences, start)
	s.logger.Info("itinerary generated",
		"destination", destination,
		"days", days,
		"attractions", len(attractions),
		"source", source,
	)
	return GeneratedItinerary{
		ID:          uuid.NewString(),
		Destination: destination,
		StartDate:   util.FormatDate(start),
		EndDate:     util.FormatDate(end),
		Days:        plan,
		Source:      source,
		Degraded:    degraded,
		CreatedAt:   s.now().UTC(),
	}, nil
}

func (s *service) Optimize(ctx context.Context, req OptimizeRequest) (GeneratedItinerary, error) {
	it := req.Itinerary
	if len(it.Days) == 0 {
		return GeneratedItinerary{}, apperrors.Invalid("itinerary must contain at least one day")
	}
	if len(it.Days) > s.cfg.MaxDays {
		return GeneratedItinerary{}, apperrors.Invalid(fmt.Sprintf("trip cannot exceed %d days", s.cfg.MaxDays))
	}
	for _, day := range it.Days {
		if len(day.Visits) > s.cfg.MaxVisitsPerDay {
			return GeneratedItinerary{}, apperrors.Invalid(fmt.Sprintf("a day cannot hold more than %d visits", s.cfg.MaxVisitsPerDay))
		}
	}
	criteria := req.OptimizationCriteria

	buckets := make([][]catalog.Attraction, len(it.Days))
	for i, day := range it.Days {
		for _, v := range day.Visits {
			buckets[i] = append(buckets[i], v.Attraction)
		}
	}
	if criteria.BalanceDays {
		buckets = balance(buckets)
	}

	order := orderNearest
	if criteria.PrioritizeRating && !criteria.MinimizeTravel {
		order = orderRating
	}
	prefs := Preferences{TravelMode: criteria.TravelMode}

	start, _ := util.ParseDate(it.StartDate)
	days := make([]Day, len(it.Days))
	for i, bucket := range buckets {
		date := it.Days[i].Date
		if date == "" && !start.IsZero() {
			date = util.FormatDate(start.AddDate(0, 0, i))
		}
		days[i] = s.scheduler.planDay(ctx, i+1, date, bucket, criteria.Accommodation, prefs, order)
	}
	it.Days = days
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	s.logger.Info("itinerary optimized",
		"id", it.ID,
		"balance", criteria.BalanceDays,
		"rating", order == orderRating,
	)
	return it, nil
}

func (s *service) Save(ctx context.Context, userID string, req SaveRequest) (SavedItinerary, error) {
	if len(req.Itinerary.Days) == 0 {
		return SavedItinerary{}, apperrors.Invalid("itinerary must contain at least one day")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle(req.Itinerary)
	}
	now := s.now().UTC()
	saved, err := s.repo.Create(ctx, SavedItinerary{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Itinerary: req.Itinerary,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return SavedItinerary{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save itinerary", err)
	}
	return saved, nil
}

func (s *service) Get(ctx context.Context, userID, id string) (SavedItinerary, error) {
	it, ok, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return SavedItinerary{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load itinerary", err)
	}
	if !ok {
		return SavedItinerary{}, apperrors.Wrap(apperrors.CodeNotFound, "itinerary not found", nil)
	}
	return it, nil
}

func (s *service) List(ctx context.Context, userID string) ([]SavedItinerary, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "failed to list itineraries", err)
	}
	if items == nil {
		items = []SavedItinerary{}
	}
	return items, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to delete itinerary", err)
	}
	if !ok {
		return apperrors.Wrap(apperrors.CodeNotFound, "itinerary not found", nil)
	}
	return nil
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return time.Time{}, time.Time{}, apperrors.Invalid("startDate and endDate are required")
	}
	start, err := util.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "startDate must be formatted as YYYY-MM-DD", err)
	}
	end, err := util.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Wrap(apperrors.CodeInvalidInput, "endDate must be formatted as YYYY-MM-DD", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.Invalid("endDate must not be before startDate")
	}
	return start, end, nil
}

// balance deals visits round-robin so day sizes differ by at most one.
func balance(buckets [][]catalog.Attraction) [][]catalog.Attraction {
	out := make([][]catalog.Attraction, len(buckets))
	k := 0
	for _, bucket := range buckets {
		for _, a := range bucket {
			out[k%len(out)] = append(out[k%len(out)], a)
			k++
		}
	}
	return out
}

func defaultTitle(it GeneratedItinerary) string {
	name := it.Destination
	if name == "" {
		name = "Trip"
	}
	if it.StartDate != "" {
		return fmt.Sprintf("%s (%s to %s)", name, it.StartDate, it.EndDate)
	}
	return name
}
