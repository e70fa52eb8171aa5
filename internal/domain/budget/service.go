package budget

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

var descriptions = map[string]string{
	CategoryAccommodation:  "Hotels, guesthouses or rentals for every night of the trip",
	CategoryFood:           "Meals, snacks and drinks",
	CategoryTransportation: "Local transport, taxis and intercity transfers",
	CategoryActivities:     "Entry tickets, tours and experiences",
	CategoryMiscellaneous:  "Shopping, tips and emergencies",
}

// Service exposes budget allocation.
type Service interface {
	Allocate(ctx context.Context, req Request) (Plan, error)
}

// Config wires defaults for the allocator.
type Config struct {
	DefaultCurrency string
}

type service struct {
	cfg    Config
	logger *slog.Logger
}

// NewService constructs the budget Service.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	return &service{cfg: cfg, logger: logger.With("component", "budget.service")}
}

func (s *service) Allocate(_ context.Context, req Request) (Plan, error) {
	if req.TotalBudget <= 0 {
		return Plan{}, apperrors.Invalid("totalBudget is required and must be greater than 0")
	}
	if req.Duration <= 0 {
		return Plan{}, apperrors.Invalid("duration is required and must be greater than 0")
	}
	style := NormalizeStyle(req.TravelStyle)
	group := NormalizeGroup(req.GroupType)
	shares, err := Shares(style, group)
	if err != nil {
		return Plan{}, err
	}
	groupSize := max(req.GroupSize, 1)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	// Amounts are whole currency units, so the total is too.
	total := decimal.NewFromFloat(req.TotalBudget).Round(0)
	if !total.IsPositive() {
		return Plan{}, apperrors.Invalid("totalBudget must be at least 1 after rounding to whole units")
	}
	days := decimal.NewFromInt(int64(req.Duration))
	people := decimal.NewFromInt(int64(groupSize))
	amounts := Distribute(total, shares)

	allocation := make(Allocation, len(Categories))
	for i, name := range Categories {
		amount := amounts[i]
		allocation[name] = Line{
			Amount:      amount.InexactFloat64(),
			Percentage:  amount.Div(total).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64(),
			PerDay:      amount.Div(days).Round(2).InexactFloat64(),
			PerPerson:   amount.Div(people).Round(2).InexactFloat64(),
			Description: descriptions[name],
		}
	}

	perPersonPerDay := total.Div(days).Div(people)
	summary := Summary{
		TotalBudget:     total.InexactFloat64(),
		Duration:        req.Duration,
		GroupSize:       groupSize,
		TravelStyle:     style,
		GroupType:       group,
		Currency:        currency,
		DailyBudget:     total.Div(days).Round(2).InexactFloat64(),
		PerPersonBudget: total.Div(people).Round(2).InexactFloat64(),
		PerPersonPerDay: perPersonPerDay.Round(2).InexactFloat64(),
		Tier:            TierFor(perPersonPerDay),
	}

	s.logger.Debug("budget allocated", "style", style, "group", group, "tier", summary.Tier)
	return Plan{
		BudgetAllocation: allocation,
		Insights:         insights(allocation, summary, req.Destination),
		Recommendations:  recommendations(summary, req.Preferences.Interests),
		Summary:          summary,
	}, nil
}

func insights(allocation Allocation, summary Summary, destination string) []string {
	largest := Categories[0]
	for _, name := range Categories[1:] {
		if allocation[name].Amount > allocation[largest].Amount {
			largest = name
		}
	}
	out := []string{
		fmt.Sprintf("%s takes the largest share at %.1f%% (%s %.0f)",
			titleCase(largest), allocation[largest].Percentage, summary.Currency, allocation[largest].Amount),
		fmt.Sprintf("Plan on about %s %.0f per day for the whole group", summary.Currency, summary.DailyBudget),
	}

	switch summary.TravelStyle {
	case StyleBudget:
		out = append(out, "Budget style keeps accommodation lean so more goes to food and getting around")
	case StyleRelaxed:
		out = append(out, "Relaxed style favours comfortable stays and fewer transfers")
	case StyleIntense:
		out = append(out, "Intense style shifts money to transport and activities to fit more into each day")
	case StyleLuxury:
		out = append(out, "Luxury style reserves the biggest slice for premium accommodation")
	}

	switch summary.GroupType {
	case GroupSolo:
		out = append(out, "Solo travellers can save on accommodation with hostels or single rooms")
	case GroupFamily:
		out = append(out, "Families need larger rooms, so accommodation gets extra room in the budget")
	case GroupFriends:
		out = append(out, "Friends sharing rooms free up money for activities")
	case GroupGroup:
		out = append(out, "Larger groups should budget for shared vehicles and transfers")
	}

	switch summary.Tier {
	case TierLow:
		out = append(out, fmt.Sprintf("At %s %.0f per person per day this is a tight budget", summary.Currency, summary.PerPersonPerDay))
	case TierLuxury:
		out = append(out, fmt.Sprintf("At %s %.0f per person per day there is plenty of headroom for upgrades", summary.Currency, summary.PerPersonPerDay))
	}

	if destination = strings.TrimSpace(destination); destination != "" {
		out = append(out, fmt.Sprintf("Prices in %s change with the season; book accommodation early to lock in rates", destination))
	}
	return out
}

func recommendations(summary Summary, interests []string) []string {
	var out []string
	switch summary.Tier {
	case TierLow:
		out = append(out,
			"Use public transport and shared rides instead of private taxis",
			"Look for free walking tours and attractions with free entry days",
			"Eat where locals eat; street food is cheap and often the best")
	case TierMedium:
		out = append(out,
			"Mix mid-range hotels with a couple of special meals",
			"Buy combined attraction passes where they exist")
	case TierHigh:
		out = append(out,
			"Consider a private driver for day trips",
			"Book guided tours for the headline attractions")
	default:
		out = append(out,
			"Reserve premium experiences and fine dining well in advance",
			"A dedicated concierge or trip planner can handle logistics")
	}
	if summary.Duration > 7 {
		out = append(out, "For longer stays, weekly rentals are often cheaper than hotels")
	}
	if summary.GroupSize > 4 {
		out = append(out, "Ask for group discounts on tours and entry tickets")
	}

	lowered := make([]string, len(interests))
	for i, interest := range interests {
		lowered[i] = strings.ToLower(strings.TrimSpace(interest))
	}
	if slices.Contains(lowered, "food") {
		out = append(out, "Set aside part of the food budget for a local food tour")
	}
	if slices.Contains(lowered, "shopping") {
		out = append(out, "Shopping comes out of miscellaneous; raise it if you plan to buy souvenirs")
	}
	if slices.Contains(lowered, "adventure") {
		out = append(out, "Adventure activities can be expensive; check the activities line covers them")
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
