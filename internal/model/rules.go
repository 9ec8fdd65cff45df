package model

import "github.com/shopspring/decimal"

// SymbolRules holds the exchange constraints an order for Symbol must satisfy.
// StepSize is always positive and MinNotional never negative.
type SymbolRules struct {
	Symbol            string
	PricePrecision    int32
	QuantityPrecision int32
	TickSize          decimal.Decimal
	StepSize          decimal.Decimal
	MinQty            decimal.Decimal
	MaxQty            decimal.Decimal // zero means unbounded
	MinNotional       decimal.Decimal
	MinLeverage       int
	MaxLeverage       int
}

// AccountState is a point-in-time snapshot of the futures wallet.
type AccountState struct {
	Asset            string
	AvailableBalance decimal.Decimal
	Leverage         int // 0 when the symbol has no leverage set
}
