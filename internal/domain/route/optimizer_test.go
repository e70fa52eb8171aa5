package route

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
)

func TestNearestNeighbor_DelhiExample(t *testing.T) {
	points := []Point{
		pt("1", 28.61, 77.20),
		pt("2", 28.65, 77.24),
		pt("3", 28.52, 77.18),
	}
	require.Less(t,
		geo.DistanceKm(*points[0].Coordinates, *points[1].Coordinates),
		geo.DistanceKm(*points[0].Coordinates, *points[2].Coordinates))

	ordered, excluded := NearestNeighbor(points, nil)
	require.Empty(t, excluded)
	require.Equal(t, []catalog.ID{"1", "2", "3"}, ids(ordered))
}

func TestNearestNeighbor_StartLocation(t *testing.T) {
	points := []Point{
		pt("far", 28.70, 77.10),
		pt("near", 28.52, 77.18),
	}
	start := geo.Coordinates{Lat: 28.50, Lng: 77.18}

	ordered, _ := NearestNeighbor(points, &start)
	require.Equal(t, []catalog.ID{"near", "far"}, ids(ordered))
}

func TestNearestNeighbor_TieBreaksOnLowestID(t *testing.T) {
	start := geo.Coordinates{Lat: 0, Lng: 0}

	ordered, _ := NearestNeighbor([]Point{pt("b", 0, 1), pt("a", 0, -1)}, &start)
	require.Equal(t, catalog.ID("a"), ordered[0].ID)

	ordered, _ = NearestNeighbor([]Point{pt("10", 1, 0), pt("9", -1, 0)}, &start)
	require.Equal(t, catalog.ID("9"), ordered[0].ID, "numeric ids compare as numbers")
}

func TestNearestNeighbor_ExcludesInvalidPoints(t *testing.T) {
	nan := geo.Coordinates{Lat: math.NaN(), Lng: 77}
	points := []Point{
		{ID: "missing"},
		{ID: "nan", Coordinates: &nan},
		pt("ok-1", 28.6, 77.2),
		pt("ok-2", 28.7, 77.3),
	}

	ordered, excluded := NearestNeighbor(points, nil)
	require.Equal(t, []catalog.ID{"ok-1", "ok-2"}, ids(ordered))
	require.Equal(t, []catalog.ID{"missing", "nan"}, ids(excluded))

	ordered, excluded = NearestNeighbor([]Point{{ID: "x"}}, nil)
	require.Empty(t, ordered)
	require.Len(t, excluded, 1)
}

func TestNearestNeighbor_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(20)
		points := randomPoints(rng, n)
		var start *geo.Coordinates
		if trial%2 == 0 {
			start = &geo.Coordinates{Lat: 28.6, Lng: 77.2}
		}

		ordered, excluded := NearestNeighbor(points, start)
		require.Empty(t, excluded)
		require.ElementsMatch(t, ids(points), ids(ordered))
	}
}

func TestNearestNeighbor_TotalDistanceCoversWidestPair(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		points := randomPoints(rng, 2+rng.IntN(15))
		ordered, _ := NearestNeighbor(points, nil)

		total := 0.0
		for i := 1; i < len(ordered); i++ {
			total += geo.DistanceKm(*ordered[i-1].Coordinates, *ordered[i].Coordinates)
		}
		widest := 0.0
		for i := range points {
			for j := i + 1; j < len(points); j++ {
				widest = math.Max(widest, geo.DistanceKm(*points[i].Coordinates, *points[j].Coordinates))
			}
		}
		require.GreaterOrEqual(t, total+1e-9, widest)
		require.Greater(t, total, 0.0)
	}
}

func TestByRating(t *testing.T) {
	points := []Point{
		{ID: "2", Rating: 4.5, Coordinates: &geo.Coordinates{Lat: 1, Lng: 1}},
		{ID: "1", Rating: 4.5, Coordinates: &geo.Coordinates{Lat: 2, Lng: 2}},
		{ID: "3", Rating: 4.9, Coordinates: &geo.Coordinates{Lat: 3, Lng: 3}},
		{ID: "4", Rating: 5.0},
	}
	ordered, excluded := ByRating(points)
	require.Equal(t, []catalog.ID{"3", "1", "2"}, ids(ordered))
	require.Equal(t, []catalog.ID{"4"}, ids(excluded))
}

func pt(id string, lat, lng float64) Point {
	return Point{ID: catalog.ID(id), Coordinates: &geo.Coordinates{Lat: lat, Lng: lng}}
}

func ids(points []Point) []catalog.ID {
	out := make([]catalog.ID, len(points))
	for i, p := range points {
		out[i] = p.ID
	}
	return out
}

func randomPoints(rng *rand.Rand, n int) []Point {
	points := make([]Point, n)
	for i := range points {
		points[i] = pt(fmt.Sprintf("p%d", i), 28.4+rng.Float64()*0.4, 77.0+rng.Float64()*0.4)
	}
	return points
}
