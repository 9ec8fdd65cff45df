package core

import (
	"strconv"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/model"
)

// marginPlaces is the precision required margin is rounded up to.
const marginPlaces = 8

// DefaultSafetyBuffer covers slippage and fees on the testnet (10%).
var DefaultSafetyBuffer = decimal.NewFromFloat(0.1)

// MarginEstimator computes the initial margin a prospective order locks.
type MarginEstimator struct {
	SafetyBuffer decimal.Decimal
}

func NewMarginEstimator(safetyBuffer decimal.Decimal) *MarginEstimator {
	return &MarginEstimator{SafetyBuffer: safetyBuffer}
}

// EstimateMargin returns notional / leverage * (1 + SafetyBuffer), rounded
// up to 8 decimal places. Leverage must lie within the symbol's bounds.
// The result never increases with leverage, and strictly decreases while the
// unrounded margins differ by at least 1e-8; below that the ceiling makes
// neighbouring leverages share the same 0.00000001 step.
func (m *MarginEstimator) EstimateMargin(notional decimal.Decimal, leverage int, rules model.SymbolRules) (decimal.Decimal, error) {
	minLev := rules.MinLeverage
	if minLev < 1 {
		minLev = 1
	}
	if leverage < minLev || (rules.MaxLeverage > 0 && leverage > rules.MaxLeverage) {
		return decimal.Zero, reject(KindInvalidLeverage, "leverage outside allowed range",
			leverageRange(minLev, rules.MaxLeverage), strconv.Itoa(leverage))
	}

	factor := decimal.NewFromInt(1).Add(m.SafetyBuffer)
	required := notional.Mul(factor).DivRound(decimal.NewFromInt(int64(leverage)), marginPlaces+8)
	return required.RoundCeil(marginPlaces), nil
}

// CheckAffordability rejects when required margin strictly exceeds the
// available balance.
func (m *MarginEstimator) CheckAffordability(required, available decimal.Decimal) error {
	if required.GreaterThan(available) {
		return reject(KindInsufficientMargin, "required margin exceeds available balance", available.String(), required.String())
	}
	return nil
}

func leverageRange(lo, hi int) string {
	if hi <= 0 {
		return "[" + strconv.Itoa(lo) + ", ∞)"
	}
	return "[" + strconv.Itoa(lo) + ", " + strconv.Itoa(hi) + "]"
}
