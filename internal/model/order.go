package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderType string

const (
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeStopLimit OrderType = "STOP_LIMIT"
)

// RequiresPrice reports whether the order type carries a limit price
func (t OrderType) RequiresPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLimit
}

// OrderIntent is the order exactly as the user asked for it.
// Price and StopPrice are zero when not supplied.
type OrderIntent struct {
	Symbol    string
	Side      Side
	Type      OrderType
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	StopPrice decimal.Decimal
	Leverage  int
}

func (i OrderIntent) String() string {
	s := fmt.Sprintf("%s %s %s qty=%s lev=%dx", i.Symbol, i.Side, i.Type, i.Quantity, i.Leverage)
	if !i.Price.IsZero() {
		s += " price=" + i.Price.String()
	}
	if !i.StopPrice.IsZero() {
		s += " stop=" + i.StopPrice.String()
	}
	return s
}

// AdjustedOrder is an exchange-compliant order produced by validation
type AdjustedOrder struct {
	Symbol            string
	Side              Side
	Type              OrderType
	Quantity          decimal.Decimal // step aligned
	Price             decimal.Decimal
	StopPrice         decimal.Decimal
	ReferencePrice    decimal.Decimal
	Notional          decimal.Decimal
	RequiredMargin    decimal.Decimal
	AvailableBalance  decimal.Decimal
	Leverage          int
	CurrentLeverage   int
	QuantityPrecision int32
}
