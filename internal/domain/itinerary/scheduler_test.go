package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/internal/domain/route"
)

func TestSchedule_ReturnsExactlyNDays(t *testing.T) {
	s := newTestScheduler()
	start := date(t, "2024-12-30")

	days := s.Schedule(context.Background(), []catalog.Attraction{
		attraction("1", 4.5, 0.01, "1 hour"),
		attraction("2", 4.0, 0.02, "1 hour"),
	}, nil, 4, Preferences{}, start)

	require.Len(t, days, 4)
	require.Equal(t, "2024-12-30", days[0].Date)
	require.Equal(t, "2024-12-31", days[1].Date)
	require.Equal(t, "2025-01-01", days[2].Date)
	require.False(t, days[0].Free)
	require.False(t, days[1].Free)
	require.True(t, days[2].Free)
	require.True(t, days[3].Free)
	require.Empty(t, days[3].Visits)
	require.Equal(t, 4, days[3].Day)

	require.Len(t, s.Schedule(context.Background(), nil, nil, 3, Preferences{}, start), 3)
}

func TestSchedule_NoAttractionTwice(t *testing.T) {
	s := newTestScheduler()
	var input []catalog.Attraction
	for i, id := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		input = append(input, attraction(id, 4.0+float64(i)/10, float64(i+1)/100, "1 hour"))
	}
	input = append(input, input[0])

	days := s.Schedule(context.Background(), input, nil, 3, Preferences{}, date(t, "2024-05-01"))
	require.Len(t, days, 3)
	require.Len(t, days[0].Visits, 3)
	require.Len(t, days[1].Visits, 3)
	require.Len(t, days[2].Visits, 1)

	seen := map[catalog.ID]bool{}
	for _, d := range days {
		for _, v := range d.Visits {
			require.False(t, seen[v.Attraction.ID], "duplicate %s", v.Attraction.ID)
			seen[v.Attraction.ID] = true
		}
	}
	require.Len(t, seen, 7)
}

func TestSchedule_LayoutWithMeals(t *testing.T) {
	s := newTestScheduler()
	hotel := &catalog.Accommodation{ID: "h", Coordinates: &geo.Coordinates{Lat: 0, Lng: 0}}

	days := s.Schedule(context.Background(), []catalog.Attraction{
		attraction("c", 4.0, 0.03, "3 hours"),
		attraction("a", 4.0, 0.01, "2 hours"),
		attraction("d", 4.0, 0.04, "4 hours"),
		attraction("b", 4.0, 0.02, "90 minutes"),
	}, hotel, 1, Preferences{}, date(t, "2024-05-01"))

	visits := days[0].Visits
	require.Len(t, visits, 4)
	require.Equal(t, []string{"a", "b", "c", "d"}, visitIDs(visits))

	require.Equal(t, "09:00", visits[0].StartTime)
	require.Equal(t, "11:00", visits[0].EndTime)
	require.Equal(t, "11:30", visits[1].StartTime)
	require.Equal(t, "13:00", visits[1].EndTime)
	require.Equal(t, "14:30", visits[2].StartTime)
	require.Equal(t, "17:30", visits[2].EndTime)
	require.Equal(t, "18:00", visits[3].StartTime)
	require.Equal(t, "22:00", visits[3].EndTime)

	require.Equal(t, []Meal{
		{Type: MealLunch, StartTime: "13:00", EndTime: "14:00"},
		{Type: MealDinner, StartTime: "22:00", EndTime: "23:00"},
	}, days[0].Meals)

	require.Greater(t, visits[0].TravelMinutes, 0, "first stop is reached from the hotel")
	require.Greater(t, days[0].TotalDistance, 0.0)
	require.Equal(t, route.SourceHaversine, days[0].RouteSource)
}

func TestSchedule_InterestBonusRanksFirst(t *testing.T) {
	s := newTestScheduler()
	museum := attraction("1", 4.0, 0.01, "1 hour")
	museum.Category = "museum"
	park := attraction("2", 4.5, 0.02, "1 hour")
	park.Category = "nature"

	days := s.Schedule(context.Background(), []catalog.Attraction{park, museum}, nil, 2, Preferences{Interests: []string{"Museum"}}, date(t, "2024-05-01"))
	require.Equal(t, catalog.ID("1"), days[0].Visits[0].Attraction.ID)
	require.Equal(t, catalog.ID("2"), days[1].Visits[0].Attraction.ID)
}

func TestSchedule_UnlocatedVisitsGoLast(t *testing.T) {
	s := newTestScheduler()
	nowhere := catalog.Attraction{ID: "x", Name: "Walking tour", Rating: 5}

	days := s.Schedule(context.Background(), []catalog.Attraction{
		nowhere,
		attraction("1", 4.0, 0.01, "1 hour"),
	}, nil, 1, Preferences{}, date(t, "2024-05-01"))

	require.Equal(t, []string{"1", "x"}, visitIDs(days[0].Visits))
	require.Equal(t, "10:30", days[0].Visits[1].StartTime)
}

func TestPreferenceBonus(t *testing.T) {
	a := catalog.Attraction{Name: "National Museum", Category: "museum"}
	require.Equal(t, 1.5, preferenceBonus(a, []string{"museum"}))
	require.Equal(t, 0.5, preferenceBonus(a, []string{"national"}))
	require.Zero(t, preferenceBonus(a, []string{"beach"}))
	require.Zero(t, preferenceBonus(a, nil))
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(SchedulerConfig{DayStart: "bogus"}, nil)
	require.Equal(t, 9*60, s.dayStart)
	require.Equal(t, 30, s.buffer)

	s = NewScheduler(SchedulerConfig{DayStart: "08:30", TravelBuffer: 15 * time.Minute}, nil)
	require.Equal(t, 8*60+30, s.dayStart)
	require.Equal(t, 15, s.buffer)
}

func newTestScheduler() *Scheduler {
	router := route.NewService(route.Config{}, route.Providers{}, newTestLogger())
	return NewScheduler(SchedulerConfig{}, router)
}

func attraction(id string, rating, lng float64, duration string) catalog.Attraction {
	return catalog.Attraction{
		ID:          catalog.ID(id),
		Name:        "Place " + id,
		Rating:      rating,
		Duration:    duration,
		Coordinates: &geo.Coordinates{Lat: 0, Lng: lng},
	}
}

func visitIDs(visits []Visit) []string {
	out := make([]string, len(visits))
	for i, v := range visits {
		out[i] = string(v.Attraction.ID)
	}
	return out
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, raw)
	require.NoError(t, err)
	return d
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
