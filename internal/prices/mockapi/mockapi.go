// Package mockapi provides a randomized stand-in gas price provider.
package mockapi

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelwatch/gaspricebot/internal/prices"
)

// ProviderName is the identifier for this provider.
const ProviderName = "mock"

// fuelOrder fixes the draw order so a seeded provider is reproducible.
var fuelOrder = []prices.FuelType{
	prices.FuelRegular,
	prices.FuelMidGrade,
	prices.FuelPremium,
	prices.FuelDiesel,
}

// basePrices are the reference prices the mock varies around, in USD per gallon.
var basePrices = map[prices.FuelType]float64{
	prices.FuelRegular:  3.45,
	prices.FuelMidGrade: 3.75,
	prices.FuelPremium:  4.05,
	prices.FuelDiesel:   3.85,
}

// Provider implements prices.Provider with randomized variation around fixed
// base prices. It is a stand-in for a real market-data API.
type Provider struct {
	variation float64
	logger    zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a mock provider with the given maximum price variation in USD.
func New(variation float64, logger zerolog.Logger) *Provider {
	return NewSeeded(variation, time.Now().UnixNano(), logger)
}

// NewSeeded creates a mock provider with a fixed RNG seed for reproducible quotes.
func NewSeeded(variation float64, seed int64, logger zerolog.Logger) *Provider {
	return &Provider{
		variation: variation,
		logger:    logger.With().Str("provider", ProviderName).Logger(),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return ProviderName
}

// Fetch returns a quote around the base prices. The RNG is guarded so the
// scheduled and on-demand paths can fetch concurrently.
func (p *Provider) Fetch(ctx context.Context, area string) (prices.Quote, error) {
	if err := ctx.Err(); err != nil {
		return prices.Quote{}, err
	}

	out := make(map[prices.FuelType]float64, len(fuelOrder))

	p.mu.Lock()
	for _, fuel := range fuelOrder {
		v := basePrices[fuel]
		if p.variation > 0 {
			v += (p.rng.Float64()*2 - 1) * p.variation
		}
		v = math.Round(v*100) / 100
		if v < 0 {
			v = 0
		}
		out[fuel] = v
	}
	p.mu.Unlock()

	p.logger.Debug().
		Str("area", area).
		Int("count", len(out)).
		Msg("generated mock prices")

	return prices.Quote{
		Area:      area,
		Prices:    out,
		FetchedAt: time.Now(),
	}, nil
}
