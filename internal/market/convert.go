package market

import (
	"github.com/shopspring/decimal"
)

// RateToUSD semantics throughout: one unit of currency X is worth
// RateToUSD(X) US dollars.

// CrossRate computes the base/quote exchange rate from the two
// currencies' USD rates: rate = rateToUSD(base) / rateToUSD(quote).
// Returns 0 when either rate is missing or non-positive.
func CrossRate(baseRateToUSD, quoteRateToUSD float64) float64 {
	if baseRateToUSD <= 0 || quoteRateToUSD <= 0 {
		return 0
	}

	base := decimal.NewFromFloat(baseRateToUSD)
	quote := decimal.NewFromFloat(quoteRateToUSD)
	rate, _ := base.Div(quote).Float64()
	return rate
}

// USDToLocal returns the multiplier converting a USD value into the
// local currency: 1 USD = USDToLocal(rateToUSD) local units. Returns 1
// when the local rate is unknown, which leaves USD values unchanged.
func USDToLocal(localRateToUSD float64) float64 {
	if localRateToUSD <= 0 {
		return 1
	}

	one := decimal.NewFromInt(1)
	rate, _ := one.Div(decimal.NewFromFloat(localRateToUSD)).Float64()
	return rate
}
