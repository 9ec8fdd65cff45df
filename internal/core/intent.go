package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/model"
)

// NewOrderIntent builds an OrderIntent from raw user input. Leverage is
// checked first so a non-positive leverage is refused whatever else was
// entered. Fields that do not belong to the order type are dropped: MARKET
// orders carry no price and LIMIT orders carry no stop price.
func NewOrderIntent(symbol, side, orderType, quantity, price, stopPrice string, leverage int) (model.OrderIntent, error) {
	if leverage < 1 {
		return model.OrderIntent{}, reject(KindInvalidLeverage, "leverage must be at least 1", "1", strconv.Itoa(leverage))
	}

	intent := model.OrderIntent{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Side:     model.Side(strings.ToUpper(strings.TrimSpace(side))),
		Type:     model.OrderType(strings.ToUpper(strings.TrimSpace(orderType))),
		Leverage: leverage,
	}
	if intent.Symbol == "" {
		return model.OrderIntent{}, reject(KindUnknownSymbol, "symbol is required", "", "")
	}

	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return model.OrderIntent{}, reject(KindInvalidQuantity, "quantity is not a number", "", quantity)
	}
	if !qty.IsPositive() {
		return model.OrderIntent{}, reject(KindInvalidQuantity, "quantity must be positive", "> 0", qty.String())
	}
	intent.Quantity = qty

	if intent.Type.RequiresPrice() {
		if intent.Price, err = parseOptional(price); err != nil {
			return model.OrderIntent{}, reject(KindMissingPrice, "price is not a number", "", price)
		}
	}
	if intent.Type == model.OrderTypeStopLimit {
		if intent.StopPrice, err = parseOptional(stopPrice); err != nil {
			return model.OrderIntent{}, reject(KindMissingPrice, "stop price is not a number", "", stopPrice)
		}
	}

	if err := checkIntent(intent); err != nil {
		return model.OrderIntent{}, err
	}
	return intent, nil
}

func parseOptional(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// checkIntent validates order type, side and the prices the type requires,
// in that order. Trigger direction of STOP_LIMIT orders is left to the
// exchange.
func checkIntent(intent model.OrderIntent) *Rejection {
	switch intent.Type {
	case model.OrderTypeMarket, model.OrderTypeLimit, model.OrderTypeStopLimit:
	default:
		return reject(KindUnsupportedOrderType, "order type must be MARKET, LIMIT or STOP_LIMIT", "", string(intent.Type))
	}

	switch intent.Side {
	case model.SideBuy, model.SideSell:
	default:
		return reject(KindInvalidSide, "side must be BUY or SELL", "", string(intent.Side))
	}

	if intent.Type.RequiresPrice() && !intent.Price.IsPositive() {
		return reject(KindMissingPrice, "limit price must be positive", "> 0", intent.Price.String())
	}
	if intent.Type == model.OrderTypeStopLimit && !intent.StopPrice.IsPositive() {
		return reject(KindMissingPrice, "stop price must be positive", "> 0", intent.StopPrice.String())
	}
	return nil
}
