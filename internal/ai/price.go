package ai

import (
	"context"
	"math"
	"math/rand/v2"
)

// PriceLookup returns the current market value of a stock for a ticker
// symbol. It is a direct passthrough capability: no caching, no retry, no
// rate limiting.
type PriceLookup interface {
	Price(ctx context.Context, ticker string) (float64, error)
}

// SyntheticPrices answers with a random realistic quote in the absence of a
// real market-data source.
type SyntheticPrices struct{}

// Price returns a value between 100 and 1000 rounded to two decimals.
func (SyntheticPrices) Price(_ context.Context, _ string) (float64, error) {
	price := 100 + rand.Float64()*900
	return math.Round(price*100) / 100, nil
}
