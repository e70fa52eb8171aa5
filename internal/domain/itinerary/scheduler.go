package itinerary

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/route"
	"github.com/yanqian/trip-planner/pkg/util"
)

const (
	lunchAt     = 12 * 60
	dinnerAt    = 19 * 60
	mealMinutes = 60
)

// Router orders and measures a day's stops.
type Router interface {
	Order(ctx context.Context, points []route.Point, start *geo.Coordinates, mode string, live bool) (route.Route, []route.Point)
	Measure(ctx context.Context, points []route.Point, start *geo.Coordinates, mode string, live bool) route.Route
}

// SchedulerConfig fixes the daily layout.
type SchedulerConfig struct {
	DayStart     string
	TravelBuffer time.Duration
	TravelMode   string
}

// Scheduler lays attractions out over calendar days.
type Scheduler struct {
	router   Router
	dayStart int
	buffer   int
	mode     string
}

// NewScheduler builds a Scheduler. An unparsable DayStart falls back to 09:00.
func NewScheduler(cfg SchedulerConfig, router Router) *Scheduler {
	start, err := time.Parse("15:04", cfg.DayStart)
	dayStart := 9 * 60
	if err == nil {
		dayStart = start.Hour()*60 + start.Minute()
	}
	buffer := int(cfg.TravelBuffer / time.Minute)
	if buffer <= 0 {
		buffer = 30
	}
	mode := cfg.TravelMode
	if mode == "" {
		mode = geo.ModeDriving
	}
	return &Scheduler{router: router, dayStart: dayStart, buffer: buffer, mode: mode}
}

// ordering decides how a day's stops are sequenced.
type ordering int

const (
	orderNearest ordering = iota
	orderRating
)

// Schedule ranks attractions by rating plus interest bonus, splits them into
// consecutive chunks of ceil(n/days) and lays out each chunk as one day.
// It always returns exactly days entries; days without visits are free.
func (s *Scheduler) Schedule(ctx context.Context, attractions []catalog.Attraction, accommodation *catalog.Accommodation, days int, prefs Preferences, startDate time.Time) []Day {
	if days <= 0 {
		return nil
	}
	ranked := rankCandidates(dedupe(attractions), prefs.Interests)
	perDay := (len(ranked) + days - 1) / days

	out := make([]Day, days)
	for i := range out {
		var chunk []catalog.Attraction
		if from := i * perDay; from < len(ranked) {
			chunk = ranked[from:min(from+perDay, len(ranked))]
		}
		out[i] = s.planDay(ctx, i+1, util.FormatDate(startDate.AddDate(0, 0, i)), chunk, accommodation, prefs, orderNearest)
	}
	return out
}

// planDay orders items, measures the route and lays out the time slots.
// Attractions without coordinates follow the routed ones in their given order.
func (s *Scheduler) planDay(ctx context.Context, number int, date string, items []catalog.Attraction, accommodation *catalog.Accommodation, prefs Preferences, order ordering) Day {
	day := Day{Day: number, Date: date, Visits: []Visit{}, Meals: []Meal{}}
	if len(items) == 0 {
		day.Free = true
		return day
	}

	var start *geo.Coordinates
	if accommodation != nil && accommodation.Coordinates != nil && accommodation.Coordinates.Valid() {
		start = accommodation.Coordinates
	}
	mode := prefs.TravelMode
	if mode == "" {
		mode = s.mode
	}

	points := route.PointsFromAttractions(items)
	located, unlocated := route.Partition(points)

	var rt route.Route
	var ordered []route.Point
	switch order {
	case orderRating:
		ordered, _ = route.ByRating(located)
		rt = s.router.Measure(ctx, ordered, start, mode, prefs.UseRealDistances)
	default:
		rt, ordered = s.router.Order(ctx, located, start, mode, prefs.UseRealDistances)
	}

	// inbound travel per visit; the first stop has none without a start.
	travel := make([]int, len(items))
	offset := len(rt.Segments) - len(ordered)
	for i := range ordered {
		if j := i + offset; j >= 0 && j < len(rt.Segments) {
			travel[i] = rt.Segments[j].TravelMinutes
		}
	}

	sequence := make([]catalog.Attraction, 0, len(items))
	for _, p := range ordered {
		sequence = append(sequence, items[p.Index()])
	}
	for _, p := range unlocated {
		sequence = append(sequence, items[p.Index()])
	}

	s.layout(&day, sequence, travel)
	day.TotalDistance = rt.TotalDistanceKm
	day.TotalTravelTime = rt.TotalTravelMinutes
	day.RouteSource = rt.Source
	return day
}

// layout starts at the configured hour, adds the travel buffer before every
// visit after the first, and inserts lunch then dinner once the clock passes
// their hour.
func (s *Scheduler) layout(day *Day, sequence []catalog.Attraction, travel []int) {
	cursor := s.dayStart
	lunch, dinner := false, false
	for i, a := range sequence {
		if i > 0 {
			cursor += s.buffer
		}
		visitStart := cursor
		cursor += a.VisitMinutes()
		day.Visits = append(day.Visits, Visit{
			Attraction:    a,
			StartTime:     clock(visitStart),
			EndTime:       clock(cursor),
			TravelMinutes: travel[i],
		})
		if !lunch && cursor >= lunchAt {
			day.Meals = append(day.Meals, Meal{Type: MealLunch, StartTime: clock(cursor), EndTime: clock(cursor + mealMinutes)})
			cursor += mealMinutes
			lunch = true
		}
		if !dinner && cursor >= dinnerAt {
			day.Meals = append(day.Meals, Meal{Type: MealDinner, StartTime: clock(cursor), EndTime: clock(cursor + mealMinutes)})
			cursor += mealMinutes
			dinner = true
		}
	}
}

// rankCandidates orders by rating plus preference bonus, ties to the lowest id.
func rankCandidates(attractions []catalog.Attraction, interests []string) []catalog.Attraction {
	terms := make([]string, 0, len(interests))
	for _, interest := range interests {
		if t := strings.ToLower(strings.TrimSpace(interest)); t != "" {
			terms = append(terms, t)
		}
	}
	type scored struct {
		a     catalog.Attraction
		score float64
	}
	items := make([]scored, len(attractions))
	for i, a := range attractions {
		items[i] = scored{a: a, score: a.Rating + preferenceBonus(a, terms)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].a.ID.Less(items[j].a.ID)
	})
	out := make([]catalog.Attraction, len(items))
	for i, it := range items {
		out[i] = it.a
	}
	return out
}

// preferenceBonus is +1 for a category match and +0.5 when an interest
// appears in the name or description.
func preferenceBonus(a catalog.Attraction, terms []string) float64 {
	category := strings.ToLower(a.Category)
	text := strings.ToLower(a.Name + " " + a.Description)
	bonus := 0.0
	if category != "" && slices.Contains(terms, category) {
		bonus++
	}
	for _, t := range terms {
		if strings.Contains(text, t) {
			bonus += 0.5
			break
		}
	}
	return bonus
}

func dedupe(attractions []catalog.Attraction) []catalog.Attraction {
	seen := make(map[catalog.ID]bool, len(attractions))
	out := make([]catalog.Attraction, 0, len(attractions))
	for _, a := range attractions {
		if a.ID != "" {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
		}
		out = append(out, a)
	}
	return out
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
