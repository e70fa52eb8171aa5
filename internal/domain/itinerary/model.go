package itinerary

import (
	"time"

	"github.com/yanqian/trip-planner/internal/domain/catalog"
)

// Meal kinds inserted into a day.
const (
	MealLunch  = "lunch"
	MealDinner = "dinner"
)

// SourceRequest tags itineraries built from caller-supplied attractions.
const SourceRequest = "request"

// Preferences shape candidate ranking and travel estimates.
type Preferences struct {
	Interests        []string `json:"interests,omitempty"`
	TravelMode       string   `json:"travelMode,omitempty"`
	UseRealDistances bool     `json:"useRealDistances,omitempty"`
}

// Visit is one scheduled attraction.
type Visit struct {
	Attraction    catalog.Attraction `json:"attraction"`
	StartTime     string             `json:"startTime"`
	EndTime       string             `json:"endTime"`
	TravelMinutes int                `json:"travelTime"`
}

// Meal is a fixed-length break.
type Meal struct {
	Type      string `json:"type"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Day is one calendar day of the trip.
type Day struct {
	Day             int     `json:"day"`
	Date            string  `json:"date"`
	Visits          []Visit `json:"attractions"`
	Meals           []Meal  `json:"meals"`
	Free            bool    `json:"free"`
	TotalDistance   float64 `json:"totalDistance"`
	TotalTravelTime int     `json:"totalTravelTime"`
	RouteSource     string  `json:"routeSource,omitempty"`
}

// GeneratedItinerary is the full plan returned to clients.
type GeneratedItinerary struct {
	ID          string    `json:"id"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Days        []Day     `json:"days"`
	Source      string    `json:"source"`
	Degraded    bool      `json:"degraded"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GenerateRequest is the input of Service.Generate.
type GenerateRequest struct {
	Destination     string                 `json:"destination"`
	StartDate       string                 `json:"startDate"`
	EndDate         string                 `json:"endDate"`
	Attractions     []catalog.Attraction   `json:"attractions,omitempty"`
	Accommodation   *catalog.Accommodation `json:"accommodation,omitempty"`
	UserPreferences Preferences            `json:"userPreferences"`
}

// Criteria selects how Service.Optimize rearranges a plan.
type Criteria struct {
	MinimizeTravel   bool                   `json:"minimizeTravel,omitempty"`
	BalanceDays      bool                   `json:"balanceDays,omitempty"`
	PrioritizeRating bool                   `json:"prioritizeRating,omitempty"`
	TravelMode       string                 `json:"travelMode,omitempty"`
	Accommodation    *catalog.Accommodation `json:"accommodation,omitempty"`
}

// OptimizeRequest is the input of Service.Optimize.
type OptimizeRequest struct {
	Itinerary            GeneratedItinerary `json:"itinerary"`
	OptimizationCriteria Criteria           `json:"optimizationCriteria"`
}

// SaveRequest stores a generated plan for the signed-in user.
type SaveRequest struct {
	Title     string             `json:"title"`
	Itinerary GeneratedItinerary `json:"itinerary"`
}

// SavedItinerary is a plan owned by a user.
type SavedItinerary struct {
	ID        string             `json:"id" bson:"_id"`
	UserID    string             `json:"userId" bson:"user_id"`
	Title     string             `json:"title" bson:"title"`
	Itinerary GeneratedItinerary `json:"itinerary" bson:"itinerary"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}
