package recommend

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
)

// Defaults for ClusterAccommodations.
const (
	DefaultClusters   = 3
	DefaultIterations = 100
)

var priceBandNames = []string{"budget", "mid-range", "premium"}

type features [3]float64

func featuresOf(a catalog.Accommodation) features {
	return features{a.Price, a.Rating, a.DistanceFromCenter}
}

func (f features) dist2(o features) float64 {
	var sum float64
	for i := range f {
		d := f[i] - o[i]
		sum += d * d
	}
	return sum
}

// ClusterAccommodations groups stays by (price, rating, distanceFromCenter)
// with Lloyd's k-means and returns copies carrying Cluster and ClusterName.
// Initial centroids are distinct stays drawn from rng; a nil rng uses the
// global source. With no more stays than clusters each stay gets its own label.
func ClusterAccommodations(accs []catalog.Accommodation, k int, rng *rand.Rand, maxIter int) []catalog.Accommodation {
	if k <= 0 {
		k = DefaultClusters
	}
	if maxIter <= 0 {
		maxIter = DefaultIterations
	}
	out := make([]catalog.Accommodation, len(accs))
	copy(out, accs)
	if len(out) == 0 {
		return out
	}

	points := make([]features, len(out))
	for i, a := range out {
		points[i] = featuresOf(a)
	}

	var labels []int
	var centroids []features
	if len(out) <= k {
		labels = make([]int, len(out))
		centroids = make([]features, len(out))
		for i := range out {
			labels[i] = i
			centroids[i] = points[i]
		}
	} else {
		labels, centroids = lloyd(points, k, rng, maxIter)
	}

	names := clusterNames(centroids, k)
	for i := range out {
		label := labels[i]
		out[i].Cluster = &label
		out[i].ClusterName = names[label]
	}
	return out
}

func lloyd(points []features, k int, rng *rand.Rand, maxIter int) ([]int, []features) {
	var perm []int
	if rng != nil {
		perm = rng.Perm(len(points))
	} else {
		perm = rand.Perm(len(points))
	}
	centroids := make([]features, k)
	for c := range centroids {
		centroids[c] = points[perm[c]]
	}

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := p.dist2(centroid); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]features, k)
		counts := make([]int, k)
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for f := range p {
				sums[c][f] += p[f]
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for f := range sums[c] {
				centroids[c][f] = sums[c][f] / float64(counts[c])
			}
		}
	}
	return labels, centroids
}

// clusterNames labels three clusters by ascending centroid price.
func clusterNames(centroids []features, k int) []string {
	names := make([]string, len(centroids))
	if k != len(priceBandNames) {
		for i := range names {
			names[i] = fmt.Sprintf("cluster-%d", i)
		}
		return names
	}
	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return centroids[order[i]][0] < centroids[order[j]][0]
	})
	for rank, idx := range order {
		names[idx] = priceBandNames[rank]
	}
	return names
}
