package catalog

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/yanqian/trip-planner/internal/domain/geo"
)

// Live provider names, reported as the result source.
const (
	SourceGooglePlaces = "google_places"
	SourceBooking      = "booking"
)

// DefaultVisitMinutes applies when an attraction has no parseable duration.
const DefaultVisitMinutes = 120

// ID accepts both JSON strings and numbers so clients can send {"id": 1}.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Less orders ids numerically when both are integers, else lexically.
func (id ID) Less(other ID) bool {
	a, errA := strconv.ParseInt(string(id), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	if errA == nil && errB == nil {
		return a < b
	}
	return id < other
}

// Attraction is a visitable point of interest.
type Attraction struct {
	ID          ID               `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Rating      float64          `json:"rating"`
	Price       float64          `json:"price"`
	Duration    string           `json:"duration,omitempty"`
	Coordinates *geo.Coordinates `json:"coordinates,omitempty"`
	Facilities  []string         `json:"facilities,omitempty"`
	Address     string           `json:"address,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
}

// HasLocation reports whether the attraction can take part in routing.
func (a Attraction) HasLocation() bool {
	return a.Coordinates != nil && a.Coordinates.Valid()
}

// VisitMinutes parses the leading number of Duration ("2-3 hours" -> 120).
func (a Attraction) VisitMinutes() int {
	return ParseDurationMinutes(a.Duration)
}

// Accommodation is a bookable stay. Cluster is assigned transiently.
type Accommodation struct {
	ID                 ID               `json:"id"`
	Name               string           `json:"name"`
	Price              float64          `json:"price"`
	Currency           string           `json:"currency,omitempty"`
	Rating             float64          `json:"rating"`
	Coordinates        *geo.Coordinates `json:"coordinates,omitempty"`
	Amenities          []string         `json:"amenities,omitempty"`
	Address            string           `json:"address,omitempty"`
	DistanceFromCenter float64          `json:"distanceFromCenter"`
	Cluster            *int             `json:"cluster,omitempty"`
	ClusterName        string           `json:"clusterName,omitempty"`
}

// AttractionQuery filters an attraction search.
type AttractionQuery struct {
	Destination  string           `json:"destination"`
	Category     string           `json:"category,omitempty"`
	Center       *geo.Coordinates `json:"center,omitempty"`
	RadiusMeters int              `json:"radius,omitempty"`
	Limit        int              `json:"limit,omitempty"`
}

// HotelQuery filters a hotel search.
type HotelQuery struct {
	Destination string `json:"destination"`
	CheckIn     string `json:"checkIn,omitempty"`
	CheckOut    string `json:"checkOut,omitempty"`
	Adults      int    `json:"adults,omitempty"`
	Rooms       int    `json:"rooms,omitempty"`
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+)(?:\s*-\s*\d+)?\s*([A-Za-z]*)`)

// ParseDurationMinutes reads free text such as "2-3 hours" or "45 minutes".
func ParseDurationMinutes(raw string) int {
	match := leadingNumber.FindStringSubmatch(raw)
	if match == nil {
		return DefaultVisitMinutes
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return DefaultVisitMinutes
	}
	if strings.HasPrefix(strings.ToLower(match[2]), "min") {
		return n
	}
	return n * 60
}
