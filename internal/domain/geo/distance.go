package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// Travel modes understood by the estimator and the directions providers.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// average speeds in km/h for the linear travel-time model.
var averageSpeedKmh = map[string]float64{
	ModeDriving:   30,
	ModeTransit:   25,
	ModeBicycling: 15,
	ModeWalking:   5,
}

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and inside their ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String renders "lat,lng" as accepted by the Google APIs.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// MarshalJSON writes null for non-finite coordinates, which encoding/json rejects.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	if !finite(c.Lat) || !finite(c.Lng) {
		return []byte("null"), nil
	}
	type plain Coordinates
	return json.Marshal(plain(c))
}

// UnmarshalJSON accepts [lat, lng] or {"lat","lng"|"lon"}. Malformed input
// decodes to NaN so the point is filtered out instead of failing the request.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	*c = Coordinates{Lat: math.NaN(), Lng: math.NaN()}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var pair []float64
		if err := json.Unmarshal(trimmed, &pair); err != nil || len(pair) != 2 {
			return nil
		}
		c.Lat, c.Lng = pair[0], pair[1]
	case '{':
		var obj struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
			Lon *float64 `json:"lon"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil || obj.Lat == nil {
			return nil
		}
		lng := obj.Lng
		if lng == nil {
			lng = obj.Lon
		}
		if lng == nil {
			return nil
		}
		c.Lat, c.Lng = *obj.Lat, *lng
	}
	return nil
}

// ParseCoordinates parses the "lat,lng" query form.
func ParseCoordinates(raw string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates must be lat,lng: %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("coordinates out of range: %q", raw)
	}
	return c, nil
}

// DistanceKm returns the haversine great-circle distance. NaN inputs yield NaN.
func DistanceKm(a, b Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// EstimateTravelMinutes applies a constant average speed for the mode.
func EstimateTravelMinutes(km float64, mode string) int {
	if km <= 0 || math.IsNaN(km) {
		return 0
	}
	speed, ok := averageSpeedKmh[NormalizeMode(mode)]
	if !ok {
		speed = averageSpeedKmh[ModeDriving]
	}
	return int(math.Round(km / speed * 60))
}

// NormalizeMode maps free-form mode strings to a supported mode.
func NormalizeMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeWalking, "walk":
		return ModeWalking
	case ModeBicycling, "bicycle", "bike", "cycling":
		return ModeBicycling
	case ModeTransit, "public", "public_transport":
		return ModeTransit
	default:
		return ModeDriving
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
