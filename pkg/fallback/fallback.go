// Package fallback models provider calls that degrade to static data instead of failing.
package fallback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yanqian/trip-planner/pkg/metrics"
)

// Well-known degraded sources.
const (
	SourceFallback = "fallback"
	SourceMock     = "mock"
)

// ErrNotConfigured marks a provider without credentials. It never trips the breaker.
var ErrNotConfigured = errors.New("provider not configured")

// ErrNoResults marks a healthy provider that found nothing. It never trips the breaker.
var ErrNoResults = errors.New("provider returned no results")

// Result tags data with where it came from so callers can assert on degradation.
type Result[T any] struct {
	Source   string `json:"source"`
	Degraded bool   `json:"degraded"`
	Data     T      `json:"data"`
}

// Live wraps data fetched from the real provider.
func Live[T any](source string, data T) Result[T] {
	return Result[T]{Source: source, Data: data}
}

// Degraded wraps data produced without the real provider.
func Degraded[T any](source string, data T) Result[T] {
	return Result[T]{Source: source, Degraded: true, Data: data}
}

// BreakerSettings configures the circuit breaker in front of a provider.
type BreakerSettings struct {
	Enabled      bool
	FailureRatio float64
	MinRequests  uint32
	OpenTimeout  time.Duration
}

// Guard protects a single provider with a circuit breaker and counts fallbacks.
// A nil *Guard runs the primary function unguarded and silently.
type Guard struct {
	provider string
	cb       *gobreaker.CircuitBreaker
	metrics  *metrics.Registry
	logger   *slog.Logger
}

// NewGuard builds a guard for the named provider.
func NewGuard(provider string, settings BreakerSettings, reg *metrics.Registry, logger *slog.Logger) *Guard {
	g := &Guard{
		provider: provider,
		metrics:  reg,
		logger:   logger.With("component", "fallback.guard", "provider", provider),
	}
	if !settings.Enabled {
		return g
	}
	ratio := settings.FailureRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	minRequests := settings.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	g.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    provider,
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotConfigured) ||
				errors.Is(err, ErrNoResults) ||
				errors.Is(err, context.Canceled)
		},
	})
	return g
}

// Provider returns the live source name.
func (g *Guard) Provider() string {
	if g == nil {
		return ""
	}
	return g.provider
}

// Run executes primary once. Any failure, including an open breaker, is logged,
// counted and answered by secondary, which is always marked degraded.
func Run[T any](ctx context.Context, g *Guard, operation string, primary func(context.Context) (T, error), secondary func(context.Context) Result[T]) Result[T] {
	data, err := execute(ctx, g, primary)
	if err == nil {
		return Live(g.Provider(), data)
	}
	if g != nil {
		if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrNoResults) {
			g.logger.Debug("provider unavailable, using fallback", "operation", operation, "reason", err)
		} else {
			g.logger.Warn("provider call failed, using fallback", "operation", operation, "error", err)
		}
		g.metrics.ObserveFallback(g.provider, operation)
	}
	res := secondary(ctx)
	res.Degraded = true
	if res.Source == "" {
		res.Source = SourceFallback
	}
	return res
}

func execute[T any](ctx context.Context, g *Guard, primary func(context.Context) (T, error)) (T, error) {
	if g == nil || g.cb == nil {
		return primary(ctx)
	}
	out, err := g.cb.Execute(func() (any, error) {
		return primary(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}
