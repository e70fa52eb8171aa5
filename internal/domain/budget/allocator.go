package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

// Split holds one share per category, in Categories order.
type Split [5]decimal.Decimal

var (
	minShare = decimal.RequireFromString("0.02")
	maxShare = decimal.RequireFromString("0.70")
	one      = decimal.NewFromInt(1)
)

var styleSplits = map[string]Split{
	StyleBudget:   split("0.30", "0.30", "0.20", "0.15", "0.05"),
	StyleRelaxed:  split("0.35", "0.25", "0.15", "0.20", "0.05"),
	StyleModerate: split("0.35", "0.25", "0.20", "0.15", "0.05"),
	StyleIntense:  split("0.25", "0.20", "0.25", "0.25", "0.05"),
	StyleLuxury:   split("0.45", "0.25", "0.15", "0.10", "0.05"),
}

var groupAdjustments = map[string]Split{
	GroupSolo:    split("-0.05", "0.02", "0", "0.03", "0"),
	GroupCouple:  split("0", "0", "0", "0", "0"),
	GroupFamily:  split("0.05", "0", "0", "-0.02", "-0.03"),
	GroupFriends: split("-0.03", "0", "0", "0.03", "0"),
	GroupGroup:   split("-0.03", "0", "0.03", "0", "0"),
}

func split(values ...string) Split {
	var s Split
	for i, v := range values {
		s[i] = decimal.RequireFromString(v)
	}
	return s
}

// NormalizeStyle lowercases a style and maps empty to moderate.
func NormalizeStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		return StyleModerate
	}
	return style
}

// NormalizeGroup lowercases a group type and maps empty to couple.
func NormalizeGroup(group string) string {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		return GroupCouple
	}
	return group
}

// Shares returns the style table adjusted for the group. Each share is clamped
// to [0.02, 0.70] and the result is renormalised to sum to one.
func Shares(style, group string) (Split, error) {
	base, ok := styleSplits[NormalizeStyle(style)]
	if !ok {
		return Split{}, apperrors.Invalid(fmt.Sprintf("unsupported travelStyle %q", style))
	}
	adj, ok := groupAdjustments[NormalizeGroup(group)]
	if !ok {
		return Split{}, apperrors.Invalid(fmt.Sprintf("unsupported groupType %q", group))
	}

	var out Split
	sum := decimal.Zero
	for i := range base {
		v := base[i].Add(adj[i])
		if v.LessThan(minShare) {
			v = minShare
		}
		if v.GreaterThan(maxShare) {
			v = maxShare
		}
		out[i] = v
		sum = sum.Add(v)
	}
	if !sum.Equal(one) {
		for i := range out {
			out[i] = out[i].Div(sum)
		}
	}
	return out, nil
}

// Distribute rounds total*share to whole units per category and hands the
// signed remainder to the largest category, so the amounts always sum to total.
func Distribute(total decimal.Decimal, shares Split) Split {
	var amounts Split
	sum := decimal.Zero
	for i, share := range shares {
		amounts[i] = total.Mul(share).Round(0)
		sum = sum.Add(amounts[i])
	}
	diff := total.Sub(sum)
	if diff.IsZero() {
		return amounts
	}
	largest := 0
	for i := 1; i < len(amounts); i++ {
		if amounts[i].GreaterThan(amounts[largest]) {
			largest = i
		}
	}
	amounts[largest] = amounts[largest].Add(diff)
	return amounts
}

// TierFor classifies per-person per-day spend.
func TierFor(perPersonPerDay decimal.Decimal) string {
	switch {
	case perPersonPerDay.LessThan(decimal.NewFromInt(2000)):
		return TierLow
	case perPersonPerDay.LessThan(decimal.NewFromInt(5000)):
		return TierMedium
	case perPersonPerDay.LessThan(decimal.NewFromInt(10000)):
		return TierHigh
	default:
		return TierLuxury
	}
}
