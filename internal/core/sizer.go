package core

import (
	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/model"
)

// OrderSizer aligns quantities to a symbol's lot rules.
type OrderSizer struct{}

func NewOrderSizer() *OrderSizer {
	return &OrderSizer{}
}

// AdjustQuantity rounds requested down to a multiple of stepSize and then
// truncates it to precision decimal places. It never rounds up.
func (s *OrderSizer) AdjustQuantity(requested, stepSize decimal.Decimal, precision int32) (decimal.Decimal, error) {
	if !stepSize.IsPositive() {
		return decimal.Zero, reject(KindInvalidQuantity, "step size must be positive", "> 0", stepSize.String())
	}

	steps, _ := requested.QuoRem(stepSize, 0)
	adjusted := steps.Mul(stepSize).Truncate(precision)

	if !adjusted.IsPositive() {
		return decimal.Zero, reject(KindInvalidQuantity, "quantity below one step", stepSize.String(), requested.String())
	}
	return adjusted, nil
}

// CheckLotBounds rejects quantities outside the LOT_SIZE min/max range.
// A zero MaxQty means the symbol has no upper bound.
func (s *OrderSizer) CheckLotBounds(qty decimal.Decimal, rules model.SymbolRules) error {
	if rules.MinQty.IsPositive() && qty.LessThan(rules.MinQty) {
		return reject(KindInvalidQuantity, "quantity below minimum lot", rules.MinQty.String(), qty.String())
	}
	if rules.MaxQty.IsPositive() && qty.GreaterThan(rules.MaxQty) {
		return reject(KindInvalidQuantity, "quantity above maximum lot", rules.MaxQty.String(), qty.String())
	}
	return nil
}

// CheckMinNotional rejects orders whose value is below minNotional.
// A notional exactly equal to the minimum passes.
func (s *OrderSizer) CheckMinNotional(qty, referencePrice, minNotional decimal.Decimal) (decimal.Decimal, error) {
	notional := qty.Mul(referencePrice)
	if notional.LessThan(minNotional) {
		return notional, reject(KindMinNotional, "order value below minimum notional", minNotional.String(), notional.String())
	}
	return notional, nil
}
