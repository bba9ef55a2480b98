// Package prices provides the shared types and the provider interface for gas price data.
package prices

import (
	"context"
	"time"
)

// FuelType is a category key in a price quote (e.g. Regular, Diesel).
type FuelType string

const (
	FuelRegular  FuelType = "Regular"
	FuelMidGrade FuelType = "Mid-Grade"
	FuelPremium  FuelType = "Premium"
	FuelDiesel   FuelType = "Diesel"
)

// Quote holds the fetched prices per fuel type for one area. A quote is
// produced fresh on every fetch and is never mutated afterwards.
type Quote struct {
	// Area is the locale the prices apply to.
	Area string
	// Prices maps fuel type to price per gallon in USD.
	Prices map[FuelType]float64
	// FetchedAt is when the data was fetched.
	FetchedAt time.Time
}

// IsEmpty reports whether the quote carries no price entries.
func (q Quote) IsEmpty() bool {
	return len(q.Prices) == 0
}

// Provider defines the interface for gas price data sources.
//
// Fetch honors ctx for cancellation and deadlines; callers bound its latency
// with a timeout. On failure it returns an explicit error and never a
// fabricated fallback quote.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Fetch fetches the current prices for the given area.
	Fetch(ctx context.Context, area string) (Quote, error)
}
