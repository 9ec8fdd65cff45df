package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/logger"
)

type markPriceClient interface {
	GetMarkPrice(ctx context.Context, symbol string) (string, error)
	GetLastPrice(ctx context.Context, symbol string) (string, error)
}

// MarketDataService supplies mark prices over REST
type MarketDataService struct {
	Client markPriceClient
}

func NewMarketDataService(client markPriceClient) *MarketDataService {
	return &MarketDataService{Client: client}
}

// GetMarkPrice falls back to the ticker's last price when the premium index
// has no usable mark price for symbol.
func (s *MarketDataService) GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	raw, err := s.Client.GetMarkPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if price, ok := positive(raw); ok {
		return price, nil
	}

	logger.Warn("No mark price, falling back to ticker price", "symbol", symbol, "mark_price", raw)
	raw, err = s.Client.GetLastPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ticker price %q for %s: %w", raw, symbol, err)
	}
	return price, nil
}

func positive(raw string) (decimal.Decimal, bool) {
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
