package budget

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/trip-planner/pkg/errors"
)

func TestAllocate_ModerateCouple(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())

	plan, err := svc.Allocate(context.Background(), Request{
		TotalBudget: 50000,
		Duration:    5,
		TravelStyle: "moderate",
		GroupType:   "couple",
		GroupSize:   2,
	})
	require.NoError(t, err)

	want := map[string]float64{
		CategoryAccommodation:  17500,
		CategoryFood:           12500,
		CategoryTransportation: 10000,
		CategoryActivities:     7500,
		CategoryMiscellaneous:  2500,
	}
	for name, amount := range want {
		require.Equal(t, amount, plan.BudgetAllocation[name].Amount, name)
	}
	acc := plan.BudgetAllocation[CategoryAccommodation]
	require.Equal(t, 35.0, acc.Percentage)
	require.Equal(t, 3500.0, acc.PerDay)
	require.Equal(t, 8750.0, acc.PerPerson)
	require.NotEmpty(t, acc.Description)

	require.Equal(t, 10000.0, plan.Summary.DailyBudget)
	require.Equal(t, 25000.0, plan.Summary.PerPersonBudget)
	require.Equal(t, 5000.0, plan.Summary.PerPersonPerDay)
	require.Equal(t, TierHigh, plan.Summary.Tier)
	require.Equal(t, "INR", plan.Summary.Currency)
	require.NotEmpty(t, plan.Insights)
	require.NotEmpty(t, plan.Recommendations)
}

func TestAllocate_Conservation(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	budgets := []float64{1, 7, 99, 1001, 12345, 50000, 77777, 123456.78, 999999}
	durations := []int{1, 3, 7}
	sizes := []int{0, 1, 3, 8}

	for style := range styleSplits {
		for group := range groupAdjustments {
			for _, total := range budgets {
				for _, days := range durations {
					for _, size := range sizes {
						plan, err := svc.Allocate(context.Background(), Request{
							TotalBudget: total,
							Duration:    days,
							TravelStyle: style,
							GroupType:   group,
							GroupSize:   size,
						})
						require.NoError(t, err)

						sum := 0.0
						for _, name := range Categories {
							sum += plan.BudgetAllocation[name].Amount
						}
						require.Equal(t, math.Round(total), plan.Summary.TotalBudget)
						require.Equal(t, plan.Summary.TotalBudget, sum,
							"style=%s group=%s total=%v", style, group, total)
						require.GreaterOrEqual(t, plan.Summary.GroupSize, 1)
					}
				}
			}
		}
	}
}

func TestAllocate_FractionalTotalsRoundToWholeUnits(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	budgets := []float64{0.5, 1.49, 99.99, 1000.5, 12345.67, 50000.01, 77777.77}

	for style := range styleSplits {
		for group := range groupAdjustments {
			for _, total := range budgets {
				plan, err := svc.Allocate(context.Background(), Request{
					TotalBudget: total,
					Duration:    4,
					TravelStyle: style,
					GroupType:   group,
				})
				require.NoError(t, err)

				sum := 0.0
				for _, name := range Categories {
					amount := plan.BudgetAllocation[name].Amount
					require.Equal(t, math.Trunc(amount), amount, "%s should be whole units", name)
					sum += amount
				}
				require.Equal(t, math.Round(total), plan.Summary.TotalBudget)
				require.Equal(t, plan.Summary.TotalBudget, sum,
					"style=%s group=%s total=%v", style, group, total)
			}
		}
	}
}

func TestAllocate_RejectsTotalBelowOneUnit(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())

	_, err := svc.Allocate(context.Background(), Request{TotalBudget: 0.4, Duration: 2})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestDistribute_RemainderGoesToLargest(t *testing.T) {
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	shares := Split{third, third, third, decimal.Zero, decimal.Zero}

	amounts := Distribute(decimal.NewFromInt(100), shares)
	require.True(t, amounts[0].Equal(decimal.NewFromInt(34)), "tie goes to the earlier category")
	require.True(t, amounts[1].Equal(decimal.NewFromInt(33)))
	require.True(t, amounts[2].Equal(decimal.NewFromInt(33)))
}

func TestShares_GroupAdjustments(t *testing.T) {
	s, err := Shares("moderate", "family")
	require.NoError(t, err)
	require.True(t, s[0].Equal(decimal.RequireFromString("0.40")))
	require.True(t, s[3].Equal(decimal.RequireFromString("0.13")))
	require.True(t, s[4].Equal(decimal.RequireFromString("0.02")))

	s, err = Shares("", "")
	require.NoError(t, err)
	for i := range s {
		require.True(t, s[i].Equal(styleSplits[StyleModerate][i]))
	}

	s, err = Shares("Budget", "Solo")
	require.NoError(t, err)
	sum := decimal.Zero
	for _, v := range s {
		sum = sum.Add(v)
		require.True(t, v.GreaterThanOrEqual(minShare))
		require.True(t, v.LessThanOrEqual(maxShare))
	}
	require.True(t, sum.Equal(decimal.NewFromInt(1)))
}

func TestAllocate_Validation(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	cases := []Request{
		{Duration: 3},
		{TotalBudget: -10, Duration: 3},
		{TotalBudget: 1000},
		{TotalBudget: 1000, Duration: 3, TravelStyle: "backpacker"},
		{TotalBudget: 1000, Duration: 3, GroupType: "club"},
	}
	for _, req := range cases {
		_, err := svc.Allocate(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "%+v", req)
	}
}

func TestTierFor(t *testing.T) {
	require.Equal(t, TierLow, TierFor(decimal.NewFromInt(1999)))
	require.Equal(t, TierMedium, TierFor(decimal.NewFromInt(2000)))
	require.Equal(t, TierHigh, TierFor(decimal.NewFromInt(9999)))
	require.Equal(t, TierLuxury, TierFor(decimal.NewFromInt(10000)))
}

func TestAllocate_InterestRecommendations(t *testing.T) {
	svc := NewService(Config{DefaultCurrency: "EUR"}, newTestLogger())
	plan, err := svc.Allocate(context.Background(), Request{
		TotalBudget: 3000,
		Duration:    3,
		GroupType:   "solo",
		Destination: "Paris",
		Preferences: Preferences{Interests: []string{"Food"}},
	})
	require.NoError(t, err)
	require.Equal(t, TierLow, plan.Summary.Tier)
	require.Equal(t, 1, plan.Summary.GroupSize)
	require.Equal(t, "EUR", plan.Summary.Currency)
	require.Contains(t, plan.Recommendations, "Set aside part of the food budget for a local food tour")
	require.Contains(t, plan.Insights[len(plan.Insights)-1], "Paris")
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
