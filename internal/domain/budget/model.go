package budget

// Budget categories in allocation order. Ties during reconciliation go to the
// earlier category.
const (
	CategoryAccommodation  = "accommodation"
	CategoryFood           = "food"
	CategoryTransportation = "transportation"
	CategoryActivities     = "activities"
	CategoryMiscellaneous  = "miscellaneous"
)

// Categories lists every category in allocation order.
var Categories = []string{
	CategoryAccommodation,
	CategoryFood,
	CategoryTransportation,
	CategoryActivities,
	CategoryMiscellaneous,
}

// Travel styles.
const (
	StyleBudget   = "budget"
	StyleRelaxed  = "relaxed"
	StyleModerate = "moderate"
	StyleIntense  = "intense"
	StyleLuxury   = "luxury"
)

// Group types.
const (
	GroupSolo    = "solo"
	GroupCouple  = "couple"
	GroupFamily  = "family"
	GroupFriends = "friends"
	GroupGroup   = "group"
)

// Spending tiers, derived from per-person per-day spend.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
	TierLuxury = "luxury"
)

// Request captures the payload accepted by the allocator.
type Request struct {
	TotalBudget float64     `json:"totalBudget"`
	Duration    int         `json:"duration"`
	TravelStyle string      `json:"travelStyle,omitempty"`
	GroupType   string      `json:"groupType,omitempty"`
	GroupSize   int         `json:"groupSize,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Currency    string      `json:"currency,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Preferences are optional hints that only shape the advice text.
type Preferences struct {
	Interests []string `json:"interests,omitempty"`
}

// Line is the allocation for one category.
type Line struct {
	Amount      float64 `json:"amount"`
	Percentage  float64 `json:"percentage"`
	PerDay      float64 `json:"perDay"`
	PerPerson   float64 `json:"perPerson"`
	Description string  `json:"description"`
}

// Allocation maps category names to their line.
type Allocation map[string]Line

// Summary reports trip-level figures.
type Summary struct {
	TotalBudget     float64 `json:"totalBudget"`
	Duration        int     `json:"duration"`
	GroupSize       int     `json:"groupSize"`
	TravelStyle     string  `json:"travelStyle"`
	GroupType       string  `json:"groupType"`
	Currency        string  `json:"currency"`
	DailyBudget     float64 `json:"dailyBudget"`
	PerPersonBudget float64 `json:"perPersonBudget"`
	PerPersonPerDay float64 `json:"perPersonPerDay"`
	Tier            string  `json:"tier"`
}

// Plan is serialized back to API consumers.
type Plan struct {
	BudgetAllocation Allocation `json:"budgetAllocation"`
	Insights         []string   `json:"insights"`
	Recommendations  []string   `json:"recommendations"`
	Summary          Summary    `json:"summary"`
}
