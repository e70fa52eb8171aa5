package route

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	apperrors "github.com/yanqian/trip-planner/pkg/errors"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

const longLegKm = 10

// DistanceMatrix measures real road distance and time between two points.
type DistanceMatrix interface {
	Measure(ctx context.Context, from, to geo.Coordinates, mode string) (Leg, error)
}

// DirectionsProvider returns turn-by-turn directions.
type DirectionsProvider interface {
	Directions(ctx context.Context, from, to geo.Coordinates, mode string) (Details, error)
}

// Providers bundles the live mapping backends and their breaker.
type Providers struct {
	Matrix     DistanceMatrix
	Directions DirectionsProvider
	Guard      *fallback.Guard
}

// Config tunes the optimizer service.
type Config struct {
	DefaultMode   string
	MaxLookups    int
	LiveByDefault bool
}

// Service orders attractions and measures routes.
type Service interface {
	Optimize(ctx context.Context, req OptimizeRequest) (OptimizeResponse, error)
	Order(ctx context.Context, points []Point, start *geo.Coordinates, mode string, live bool) (Route, []Point)
	Measure(ctx context.Context, points []Point, start *geo.Coordinates, mode string, live bool) Route
	Details(ctx context.Context, req DetailsRequest) (fallback.Result[Details], error)
	Distances(ctx context.Context, req DistanceRequest) (DistanceResponse, error)
}

type service struct {
	cfg       Config
	providers Providers
	logger    *slog.Logger
}

// NewService constructs a route Service.
func NewService(cfg Config, providers Providers, logger *slog.Logger) Service {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = geo.ModeDriving
	}
	if cfg.MaxLookups <= 0 {
		cfg.MaxLookups = 4
	}
	return &service{
		cfg:       cfg,
		providers: providers,
		logger:    logger.With("component", "route.service"),
	}
}

func (s *service) Optimize(ctx context.Context, req OptimizeRequest) (OptimizeResponse, error) {
	if len(req.Attractions) == 0 {
		return OptimizeResponse{}, apperrors.Invalid("attractions are required")
	}
	optType := strings.ToLower(strings.TrimSpace(req.OptimizationType))
	switch optType {
	case "":
		optType = OptimizeDistance
	case OptimizeDistance, OptimizeTime, OptimizeRating:
	default:
		return OptimizeResponse{}, apperrors.Invalid(fmt.Sprintf("unsupported optimizationType %q", req.OptimizationType))
	}
	mode := s.mode(req.Preferences.TravelMode)
	live := req.Preferences.UseRealDistances || optType == OptimizeTime || s.cfg.LiveByDefault

	points := PointsFromAttractions(req.Attractions)

	var start *geo.Coordinates
	if req.Accommodation != nil && req.Accommodation.Coordinates != nil && req.Accommodation.Coordinates.Valid() {
		start = req.Accommodation.Coordinates
	}

	var ordered, excluded []Point
	if optType == OptimizeRating {
		ordered, excluded = ByRating(points)
	} else {
		ordered, excluded = NearestNeighbor(points, start)
	}
	if len(ordered) == 0 {
		return OptimizeResponse{}, apperrors.Invalid("no attractions with valid coordinates")
	}

	var origin *Waypoint
	if start != nil {
		origin = &Waypoint{ID: req.Accommodation.ID, Name: req.Accommodation.Name, Coordinates: *start}
	}
	rt := s.build(ctx, origin, ordered, mode, live)

	resp := OptimizeResponse{
		Route:              rt,
		OrderedAttractions: make([]catalog.Attraction, len(ordered)),
		Excluded:           excluded,
		OptimizationType:   optType,
	}
	attractionMinutes := 0
	for i, p := range ordered {
		resp.OrderedAttractions[i] = req.Attractions[p.Index()]
		attractionMinutes += p.VisitMinutes
	}
	resp.Metrics = Metrics{
		TotalDistance:       rt.TotalDistanceKm,
		TotalTravelTime:     rt.TotalTravelMinutes,
		TotalAttractionTime: attractionMinutes,
		TotalTripTime:       rt.TotalTravelMinutes + attractionMinutes,
	}
	resp.Insights = insights(rt, resp.Metrics, len(excluded))
	return resp, nil
}

// Order runs nearest neighbor from start and measures the result. It is the
// building block used by the itinerary scheduler.
func (s *service) Order(ctx context.Context, points []Point, start *geo.Coordinates, mode string, live bool) (Route, []Point) {
	ordered, _ := NearestNeighbor(points, start)
	return s.Measure(ctx, ordered, start, mode, live), ordered
}

// Measure builds a route through points in the order given, skipping points
// without valid coordinates.
func (s *service) Measure(ctx context.Context, points []Point, start *geo.Coordinates, mode string, live bool) Route {
	valid, _ := Partition(points)
	if len(valid) == 0 {
		return Route{Source: SourceHaversine}
	}
	var origin *Waypoint
	if start != nil && start.Valid() {
		origin = &Waypoint{ID: "start", Name: "start", Coordinates: *start}
	}
	return s.build(ctx, origin, valid, s.mode(mode), live)
}

func (s *service) Details(ctx context.Context, req DetailsRequest) (fallback.Result[Details], error) {
	if !req.Start.Valid() || !req.End.Valid() {
		return fallback.Result[Details]{}, apperrors.Invalid("start and end must be valid lat,lng pairs")
	}
	mode := s.mode(req.Mode)
	res := fallback.Run(ctx, s.providers.Guard, "directions",
		func(ctx context.Context) (Details, error) {
			if s.providers.Directions == nil {
				return Details{}, fallback.ErrNotConfigured
			}
			return s.providers.Directions.Directions(ctx, req.Start, req.End, mode)
		},
		func(context.Context) fallback.Result[Details] {
			leg := haversineLeg(req.Start, req.End, mode)
			return fallback.Degraded(SourceHaversine, Details{
				Distance:     reportedKm(leg.DistanceKm),
				Duration:     leg.DurationMinutes,
				Mode:         mode,
				Instructions: []string{fmt.Sprintf("Head toward destination (%.1f km, about %d min by %s)", leg.DistanceKm, leg.DurationMinutes, mode)},
			})
		},
	)
	if !res.Degraded {
		res.Source = SourceDirections
	}
	return res, nil
}

func (s *service) Distances(ctx context.Context, req DistanceRequest) (DistanceResponse, error) {
	valid, excluded := Partition(req.Points)
	if len(valid) < 2 {
		return DistanceResponse{}, apperrors.Invalid("at least two points with valid coordinates are required")
	}
	mode := s.mode(req.Mode)

	matrix := make([][]float64, len(valid))
	for i := range valid {
		matrix[i] = make([]float64, len(valid))
		for j := range valid {
			if i != j {
				matrix[i][j] = reportedKm(geo.DistanceKm(*valid[i].Coordinates, *valid[j].Coordinates))
			}
		}
	}

	rt := s.build(ctx, nil, valid, mode, req.UseDistanceMatrix)
	return DistanceResponse{
		Legs:            rt.Segments,
		Matrix:          matrix,
		TotalDistance:   rt.TotalDistanceKm,
		TotalTravelTime: rt.TotalTravelMinutes,
		Source:          rt.Source,
		Excluded:        excluded,
	}, nil
}

// build measures consecutive legs. Live lookups run through a bounded pool and
// each degrades to haversine on its own.
func (s *service) build(ctx context.Context, origin *Waypoint, ordered []Point, mode string, live bool) Route {
	stops := make([]Waypoint, len(ordered))
	for i, p := range ordered {
		stops[i] = Waypoint{ID: p.ID, Name: p.Name, Coordinates: *p.Coordinates}
	}
	chain := stops
	if origin != nil {
		chain = append([]Waypoint{*origin}, stops...)
	}

	segments := make([]Segment, 0, len(chain))
	for i := 1; i < len(chain); i++ {
		segments = append(segments, Segment{From: chain[i-1], To: chain[i]})
	}

	if live && s.providers.Matrix != nil {
		p := pool.New().WithMaxGoroutines(s.cfg.MaxLookups)
		for i := range segments {
			seg := &segments[i]
			p.Go(func() {
				s.measureLive(ctx, seg, mode)
			})
		}
		p.Wait()
	} else {
		for i := range segments {
			leg := haversineLeg(segments[i].From.Coordinates, segments[i].To.Coordinates, mode)
			segments[i].DistanceKm = leg.DistanceKm
			segments[i].TravelMinutes = leg.DurationMinutes
			segments[i].Source = SourceHaversine
		}
	}

	rt := Route{Stops: stops, Segments: segments}
	var totalKm float64
	liveCount := 0
	for i := range segments {
		seg := &segments[i]
		totalKm += seg.DistanceKm
		seg.DistanceKm = reportedKm(seg.DistanceKm)
		rt.TotalTravelMinutes += seg.TravelMinutes
		if seg.Source == SourceDistanceMatrix {
			liveCount++
		}
	}
	rt.TotalDistanceKm = reportedKm(totalKm)
	switch {
	case len(segments) > 0 && liveCount == len(segments):
		rt.Source = SourceDistanceMatrix
	case liveCount == 0:
		rt.Source = SourceHaversine
		rt.Degraded = live
	default:
		rt.Source = SourceMixed
		rt.Degraded = true
	}
	return rt
}

func (s *service) measureLive(ctx context.Context, seg *Segment, mode string) {
	from, to := seg.From.Coordinates, seg.To.Coordinates
	res := fallback.Run(ctx, s.providers.Guard, "distance_matrix",
		func(ctx context.Context) (Leg, error) {
			return s.providers.Matrix.Measure(ctx, from, to, mode)
		},
		func(context.Context) fallback.Result[Leg] {
			return fallback.Degraded(SourceHaversine, haversineLeg(from, to, mode))
		},
	)
	seg.DistanceKm = res.Data.DistanceKm
	seg.TravelMinutes = res.Data.DurationMinutes
	if res.Degraded {
		seg.Source = SourceHaversine
	} else {
		seg.Source = SourceDistanceMatrix
	}
}

func (s *service) mode(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return geo.NormalizeMode(s.cfg.DefaultMode)
	}
	return geo.NormalizeMode(requested)
}

func insights(rt Route, m Metrics, excluded int) []string {
	out := []string{
		fmt.Sprintf("Route covers %.1f km across %d stops", m.TotalDistance, len(rt.Stops)),
	}
	var longest *Segment
	for i := range rt.Segments {
		if longest == nil || rt.Segments[i].DistanceKm > longest.DistanceKm {
			longest = &rt.Segments[i]
		}
	}
	if longest != nil && longest.DistanceKm > longLegKm {
		out = append(out, fmt.Sprintf("Longest leg is %s to %s (%.1f km); consider a taxi or metro", label(longest.From), label(longest.To), longest.DistanceKm))
	}
	if m.TotalTripTime > 10*60 {
		out = append(out, "Total trip time exceeds 10 hours; consider splitting the route across two days")
	}
	if rt.Degraded || rt.Source == SourceHaversine {
		out = append(out, "Travel times are straight-line estimates; real road times may differ")
	}
	if excluded > 0 {
		out = append(out, fmt.Sprintf("%d attraction(s) skipped because their coordinates are missing or invalid", excluded))
	}
	return out
}

func label(w Waypoint) string {
	if w.Name != "" {
		return w.Name
	}
	return string(w.ID)
}
