package route

import (
	"github.com/yanqian/trip-planner/internal/domain/catalog"
	"github.com/yanqian/trip-planner/internal/domain/geo"
)

// Segment and route sources.
const (
	SourceDistanceMatrix = "google_distance_matrix"
	SourceDirections     = "google_directions"
	SourceHaversine      = "haversine"
	SourceMixed          = "mixed"
)

// Optimization types accepted by Optimize.
const (
	OptimizeDistance = "distance"
	OptimizeTime     = "time"
	OptimizeRating   = "rating"
)

// Point is anything the optimizer can visit.
type Point struct {
	ID           catalog.ID       `json:"id"`
	Name         string           `json:"name,omitempty"`
	Coordinates  *geo.Coordinates `json:"coordinates,omitempty"`
	Rating       float64          `json:"rating,omitempty"`
	VisitMinutes int              `json:"visitMinutes,omitempty"`

	// position in the caller's slice, used to map results back.
	index int
}

// Index returns the position the point had in the caller's input.
func (p Point) Index() int {
	return p.index
}

// Valid reports whether the point has usable coordinates.
func (p Point) Valid() bool {
	return p.Coordinates != nil && p.Coordinates.Valid()
}

// PointsFromAttractions projects attractions onto the optimizer input,
// remembering each one's position.
func PointsFromAttractions(items []catalog.Attraction) []Point {
	points := make([]Point, len(items))
	for i, a := range items {
		points[i] = Point{
			ID:           a.ID,
			Name:         a.Name,
			Coordinates:  a.Coordinates,
			Rating:       a.Rating,
			VisitMinutes: a.VisitMinutes(),
			index:        i,
		}
	}
	return points
}

// Waypoint is a resolved stop inside a route.
type Waypoint struct {
	ID          catalog.ID      `json:"id"`
	Name        string          `json:"name,omitempty"`
	Coordinates geo.Coordinates `json:"coordinates"`
}

// Segment is one leg between consecutive waypoints.
type Segment struct {
	From          Waypoint `json:"from"`
	To            Waypoint `json:"to"`
	DistanceKm    float64  `json:"distance"`
	TravelMinutes int      `json:"travelTime"`
	Source        string   `json:"source"`
}

// Route is an ordered chain of segments with aggregate totals.
type Route struct {
	Stops              []Waypoint `json:"stops"`
	Segments           []Segment  `json:"segments"`
	TotalDistanceKm    float64    `json:"totalDistance"`
	TotalTravelMinutes int        `json:"totalTravelTime"`
	Source             string     `json:"source"`
	Degraded           bool       `json:"degraded"`
}

// Leg is a provider measurement between two coordinates.
type Leg struct {
	DistanceKm      float64
	DurationMinutes int
}

// Preferences tune how an optimized route is measured.
type Preferences struct {
	TravelMode       string `json:"travelMode,omitempty"`
	UseRealDistances bool   `json:"useRealDistances,omitempty"`
}

// OptimizeRequest is the input of Service.Optimize.
type OptimizeRequest struct {
	Attractions      []catalog.Attraction   `json:"attractions"`
	Accommodation    *catalog.Accommodation `json:"accommodation,omitempty"`
	Preferences      Preferences            `json:"preferences"`
	OptimizationType string                 `json:"optimizationType,omitempty"`
}

// Metrics summarises an optimized route in minutes and kilometres.
type Metrics struct {
	TotalDistance       float64 `json:"totalDistance"`
	TotalTravelTime     int     `json:"totalTravelTime"`
	TotalAttractionTime int     `json:"totalAttractionTime"`
	TotalTripTime       int     `json:"totalTripTime"`
}

// OptimizeResponse is the output of Service.Optimize.
type OptimizeResponse struct {
	Route              Route                `json:"route"`
	OrderedAttractions []catalog.Attraction `json:"orderedAttractions"`
	Metrics            Metrics              `json:"metrics"`
	Insights           []string             `json:"insights"`
	Excluded           []Point              `json:"excluded,omitempty"`
	OptimizationType   string               `json:"optimizationType"`
}

// DetailsRequest asks for turn-by-turn directions between two points.
type DetailsRequest struct {
	Start geo.Coordinates
	End   geo.Coordinates
	Mode  string
}

// Details describes a single origin-destination trip.
type Details struct {
	Distance     float64  `json:"distance"`
	Duration     int      `json:"duration"`
	Mode         string   `json:"mode"`
	Instructions []string `json:"instructions"`
	Polyline     string   `json:"polyline"`
}

// DistanceRequest is the input of Service.Distances.
type DistanceRequest struct {
	Points            []Point `json:"points"`
	UseDistanceMatrix bool    `json:"useDistanceMatrix,omitempty"`
	Mode              string  `json:"mode,omitempty"`
}

// DistanceResponse carries consecutive legs plus a straight-line matrix.
type DistanceResponse struct {
	Legs            []Segment   `json:"legs"`
	Matrix          [][]float64 `json:"matrix"`
	TotalDistance   float64     `json:"totalDistance"`
	TotalTravelTime int         `json:"totalTravelTime"`
	Source          string      `json:"source"`
	Excluded        []Point     `json:"excluded,omitempty"`
}
