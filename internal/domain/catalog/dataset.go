package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/trip-planner/internal/domain/geo"
	"github.com/yanqian/trip-planner/pkg/fallback"
)

//go:embed fallback_data.json
var fallbackData []byte

// Dataset serves curated static data for known cities and generated
// placeholders for everything else.
type Dataset struct {
	cities []city
}

type city struct {
	Key         string          `json:"key"`
	Aliases     []string        `json:"aliases"`
	Currency    string          `json:"currency"`
	Center      geo.Coordinates `json:"center"`
	Attractions []Attraction    `json:"attractions"`
	Hotels      []Accommodation `json:"hotels"`
}

// LoadDataset parses the embedded fallback data.
func LoadDataset() (*Dataset, error) {
	var raw struct {
		Cities []city `json:"cities"`
	}
	if err := json.Unmarshal(fallbackData, &raw); err != nil {
		return nil, fmt.Errorf("decode fallback data: %w", err)
	}
	return &Dataset{cities: raw.Cities}, nil
}

// Attractions answers an attraction query without any provider.
func (d *Dataset) Attractions(q AttractionQuery) fallback.Result[[]Attraction] {
	if c, ok := d.lookup(q.Destination); ok {
		items := make([]Attraction, 0, len(c.Attractions))
		for _, a := range c.Attractions {
			if matchesCategory(a.Category, q.Category) {
				items = append(items, a)
			}
		}
		return fallback.Degraded(fallback.SourceFallback, limit(items, q.Limit))
	}
	return fallback.Degraded(fallback.SourceMock, limit(mockAttractions(q), q.Limit))
}

// Hotels answers a hotel query without any provider.
func (d *Dataset) Hotels(q HotelQuery) fallback.Result[[]Accommodation] {
	if c, ok := d.lookup(q.Destination); ok {
		items := make([]Accommodation, len(c.Hotels))
		for i, h := range c.Hotels {
			h.Currency = c.Currency
			if h.Coordinates != nil {
				h.DistanceFromCenter = roundTo(geo.DistanceKm(c.Center, *h.Coordinates), 1)
			}
			items[i] = h
		}
		return fallback.Degraded(fallback.SourceFallback, items)
	}
	return fallback.Degraded(fallback.SourceMock, mockHotels(q.Destination))
}

// Center returns the known centre of a destination.
func (d *Dataset) Center(destination string) (geo.Coordinates, bool) {
	c, ok := d.lookup(destination)
	if !ok {
		return geo.Coordinates{}, false
	}
	return c.Center, true
}

func (d *Dataset) lookup(destination string) (city, bool) {
	needle := strings.ToLower(strings.TrimSpace(destination))
	if needle == "" || d == nil {
		return city{}, false
	}
	for _, c := range d.cities {
		if strings.Contains(needle, c.Key) {
			return c, true
		}
		for _, alias := range c.Aliases {
			if needle == alias {
				return c, true
			}
		}
	}
	return city{}, false
}

type mockTemplate struct {
	suffix      string
	category    string
	description string
	rating      float64
	price       float64
	duration    string
}

var mockAttractionTemplates = []mockTemplate{
	{"Old Town", "historical", "Historic quarter of %s with heritage architecture and local cafes", 4.4, 0, "2-3 hours"},
	{"City Museum", "museum", "Museum covering the history and culture of %s", 4.3, 15, "2 hours"},
	{"Central Park", "nature", "Green park in the heart of %s with walking trails", 4.5, 0, "1-2 hours"},
	{"Food Market", "food", "Covered market in %s known for street food and local produce", 4.2, 0, "1-2 hours"},
	{"Art Gallery", "art", "Contemporary and classic art from %s artists", 4.1, 10, "1-2 hours"},
	{"Viewpoint", "viewpoint", "Panoramic lookout over %s at sunset", 4.6, 5, "1 hour"},
}

func mockAttractions(q AttractionQuery) []Attraction {
	name := displayName(q.Destination)
	out := make([]Attraction, 0, len(mockAttractionTemplates))
	for i, tpl := range mockAttractionTemplates {
		if !matchesCategory(tpl.category, q.Category) {
			continue
		}
		a := Attraction{
			ID:          mockID(name, tpl.suffix),
			Name:        strings.TrimSpace(name + " " + tpl.suffix),
			Category:    tpl.category,
			Description: fmt.Sprintf(tpl.description, name),
			Rating:      tpl.rating,
			Price:       tpl.price,
			Duration:    tpl.duration,
		}
		if q.Center != nil && q.Center.Valid() {
			a.Coordinates = ringPoint(*q.Center, i, len(mockAttractionTemplates), 0.015)
		}
		out = append(out, a)
	}
	return out
}

var mockHotelTemplates = []struct {
	suffix   string
	price    float64
	rating   float64
	distance float64
}{
	{"Backpackers Hostel", 25, 3.9, 4.5},
	{"Budget Inn", 55, 3.6, 3.5},
	{"City Hotel", 120, 4.0, 2.0},
	{"Grand Residency", 240, 4.4, 1.2},
	{"Palace Suites", 520, 4.8, 0.8},
}

func mockHotels(destination string) []Accommodation {
	name := displayName(destination)
	out := make([]Accommodation, len(mockHotelTemplates))
	for i, tpl := range mockHotelTemplates {
		out[i] = Accommodation{
			ID:                 mockID(name, tpl.suffix),
			Name:               strings.TrimSpace(name + " " + tpl.suffix),
			Price:              tpl.price,
			Currency:           "USD",
			Rating:             tpl.rating,
			DistanceFromCenter: tpl.distance,
			Amenities:          []string{"wifi"},
		}
	}
	return out
}

// mockID is stable across calls so clients can cache placeholders.
func mockID(destination, suffix string) ID {
	return ID("mock-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.ToLower(destination+"/"+suffix))).String())
}

func ringPoint(center geo.Coordinates, i, n int, radiusDeg float64) *geo.Coordinates {
	angle := 2 * math.Pi * float64(i) / float64(n)
	return &geo.Coordinates{
		Lat: center.Lat + radiusDeg*math.Cos(angle),
		Lng: center.Lng + radiusDeg*math.Sin(angle),
	}
}

func displayName(destination string) string {
	trimmed := strings.TrimSpace(destination)
	if trimmed == "" {
		return "Local"
	}
	return trimmed
}

func matchesCategory(category, wanted string) bool {
	wanted = strings.TrimSpace(wanted)
	if wanted == "" {
		return true
	}
	return strings.EqualFold(category, wanted)
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
