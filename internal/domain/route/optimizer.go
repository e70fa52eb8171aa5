package route

import (
	"math"
	"sort"

	"github.com/yanqian/trip-planner/internal/domain/geo"
)

// Partition splits points into those with usable coordinates and the rest,
// preserving input order.
func Partition(points []Point) (valid, excluded []Point) {
	for _, p := range points {
		if p.Valid() {
			valid = append(valid, p)
		} else {
			excluded = append(excluded, p)
		}
	}
	return valid, excluded
}

// NearestNeighbor orders points greedily by haversine distance. Invalid points
// are returned in excluded and never take part in comparisons. Equal distances
// resolve to the lowest id. With a nil start the first valid point seeds the route.
func NearestNeighbor(points []Point, start *geo.Coordinates) (ordered, excluded []Point) {
	remaining, excluded := Partition(points)
	if len(remaining) == 0 {
		return nil, excluded
	}

	ordered = make([]Point, 0, len(remaining))
	var current geo.Coordinates
	if start != nil && start.Valid() {
		current = *start
	} else {
		first := remaining[0]
		ordered = append(ordered, first)
		current = *first.Coordinates
		remaining = remaining[1:]
	}

	visited := make([]bool, len(remaining))
	for range remaining {
		best := -1
		bestDist := math.Inf(1)
		for i, candidate := range remaining {
			if visited[i] {
				continue
			}
			d := geo.DistanceKm(current, *candidate.Coordinates)
			if d < bestDist || (d == bestDist && best >= 0 && candidate.ID.Less(remaining[best].ID)) {
				best = i
				bestDist = d
			}
		}
		visited[best] = true
		ordered = append(ordered, remaining[best])
		current = *remaining[best].Coordinates
	}
	return ordered, excluded
}

// ByRating orders valid points by rating, highest first, ties to the lowest id.
func ByRating(points []Point) (ordered, excluded []Point) {
	ordered, excluded = Partition(points)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rating != ordered[j].Rating {
			return ordered[i].Rating > ordered[j].Rating
		}
		return ordered[i].ID.Less(ordered[j].ID)
	})
	return ordered, excluded
}

// haversineLeg measures a leg without any provider.
func haversineLeg(from, to geo.Coordinates, mode string) Leg {
	km := geo.DistanceKm(from, to)
	return Leg{DistanceKm: km, DurationMinutes: geo.EstimateTravelMinutes(km, mode)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// reportedKm rounds a distance for output. Any positive distance reports at
// least 0.01 km so distinct points never collapse to zero.
func reportedKm(km float64) float64 {
	if km <= 0 {
		return 0
	}
	return math.Max(round2(km), 0.01)
}
