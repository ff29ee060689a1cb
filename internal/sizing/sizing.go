// Package sizing converts the operator's per-trade risk budget into a lot
// size for a concrete entry/stop pair.
package sizing

import "github.com/shopspring/decimal"

// ContractSize is the standard-lot convention: PnL scales by this constant
// per lot per unit of price movement.
const ContractSize = 100000.0

var (
	minLots      = decimal.NewFromFloat(0.01)
	maxLots      = decimal.NewFromFloat(5.00)
	contractSize = decimal.NewFromFloat(ContractSize)
)

// LotsForRisk sizes a position so that a stop-out loses roughly
// balance * riskPercent/100. A missing or inverted stop distance falls back
// to the minimum lot so a partially-valid signal still books an inert trade.
// The result is rounded down to two decimals and clamped to [0.01, 5.00].
func LotsForRisk(balance, riskPercent, entryPrice, stopLoss float64) float64 {
	stopDistance := decimal.NewFromFloat(entryPrice).Sub(decimal.NewFromFloat(stopLoss)).Abs()
	if stopDistance.IsZero() || balance <= 0 || riskPercent <= 0 {
		return minLots.InexactFloat64()
	}

	riskAmount := decimal.NewFromFloat(balance).
		Mul(decimal.NewFromFloat(riskPercent)).
		Div(decimal.NewFromInt(100))

	lots := riskAmount.Div(stopDistance.Mul(contractSize)).RoundDown(2)
	if lots.LessThan(minLots) {
		return minLots.InexactFloat64()
	}
	if lots.GreaterThan(maxLots) {
		return maxLots.InexactFloat64()
	}
	return lots.InexactFloat64()
}
