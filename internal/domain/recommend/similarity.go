package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
)

// DefaultLimit caps Rank when the caller does not.
const DefaultLimit = 10

// Budget tiers understood by FilterByBudget.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
	TierLuxury = "luxury"
)

var priceCeilings = map[string]float64{
	TierLow:    500,
	TierMedium: 2000,
	TierHigh:   5000,
	TierLuxury: math.Inf(1),
}

// Scored pairs an attraction with its similarity to the user's interests.
type Scored struct {
	Attraction catalog.Attraction `json:"attraction"`
	Score      float64            `json:"score"`
}

// TermFrequencyCosine compares raw term counts of the interests against the
// attraction's name, description, category and facilities. There is no
// inverse document frequency weighting. The result is in [0,1] and is 0 when
// either side has no terms.
func TermFrequencyCosine(interests []string, a catalog.Attraction) float64 {
	query := termCounts(strings.Join(interests, " "))
	doc := termCounts(attractionText(a))
	if len(query) == 0 || len(doc) == 0 {
		return 0
	}

	var dot, qNorm, dNorm float64
	for term, q := range query {
		qNorm += q * q
		dot += q * doc[term]
	}
	for _, d := range doc {
		dNorm += d * d
	}
	if qNorm == 0 || dNorm == 0 {
		return 0
	}
	score := dot / (math.Sqrt(qNorm) * math.Sqrt(dNorm))
	return math.Max(0, math.Min(1, score))
}

// Rank scores every attraction and returns the best limit of them: score
// descending, then rating descending, then lowest id.
func Rank(interests []string, attractions []catalog.Attraction, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}
	scored := make([]Scored, len(attractions))
	for i, a := range attractions {
		scored[i] = Scored{Attraction: a, Score: round4(TermFrequencyCosine(interests, a))}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Attraction.Rating != b.Attraction.Rating {
			return a.Attraction.Rating > b.Attraction.Rating
		}
		return a.Attraction.ID.Less(b.Attraction.ID)
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// FilterByBudget keeps attractions priced at or below the tier's ceiling.
// Unknown or empty tiers filter nothing.
func FilterByBudget(attractions []catalog.Attraction, tier string) []catalog.Attraction {
	ceiling, ok := priceCeilings[strings.ToLower(strings.TrimSpace(tier))]
	if !ok {
		return attractions
	}
	out := make([]catalog.Attraction, 0, len(attractions))
	for _, a := range attractions {
		if a.Price <= ceiling {
			out = append(out, a)
		}
	}
	return out
}

func attractionText(a catalog.Attraction) string {
	parts := []string{a.Name, a.Description, a.Category}
	parts = append(parts, a.Facilities...)
	return strings.Join(parts, " ")
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, term := range strings.Fields(strings.ToLower(text)) {
		counts[term]++
	}
	return counts
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
