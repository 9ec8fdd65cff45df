package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/core"
	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
	"binance-futures-testnet-bot/internal/repository"
)

const statusTrading = "TRADING"

type exchangeInfoClient interface {
	GetExchangeInfo(ctx context.Context) (*model.ExchangeInfoResponse, error)
	GetMaxLeverage(ctx context.Context, symbol string) (int, error)
}

// ExchangeInfoService resolves SymbolRules from exchange metadata and keeps
// them in a RulesCache.
type ExchangeInfoService struct {
	Client exchangeInfoClient
	Cache  *repository.RulesCache
}

func NewExchangeInfoService(client exchangeInfoClient, cache *repository.RulesCache) *ExchangeInfoService {
	return &ExchangeInfoService{
		Client: client,
		Cache:  cache,
	}
}

func (s *ExchangeInfoService) GetSymbolRules(ctx context.Context, symbol string) (model.SymbolRules, error) {
	if rules, ok := s.Cache.Get(symbol); ok {
		return rules, nil
	}

	info, err := s.Client.GetExchangeInfo(ctx)
	if err != nil {
		return model.SymbolRules{}, err
	}

	var found *model.SymbolInfo
	for i := range info.Symbols {
		if info.Symbols[i].Symbol == symbol {
			found = &info.Symbols[i]
			break
		}
	}
	if found == nil {
		return model.SymbolRules{}, fmt.Errorf("%w: %s", core.ErrSymbolNotFound, symbol)
	}
	if found.Status != "" && found.Status != statusTrading {
		return model.SymbolRules{}, fmt.Errorf("%w: %s is %s", core.ErrSymbolNotFound, symbol, found.Status)
	}

	rules, err := ParseSymbolRules(*found)
	if err != nil {
		return model.SymbolRules{}, err
	}

	rules.MaxLeverage, err = s.Client.GetMaxLeverage(ctx, symbol)
	if err != nil {
		return model.SymbolRules{}, err
	}

	s.Cache.Set(rules)
	logger.Info("Symbol rules loaded",
		"symbol", rules.Symbol,
		"step_size", rules.StepSize.String(),
		"min_qty", rules.MinQty.String(),
		"min_notional", rules.MinNotional.String(),
		"quantity_precision", rules.QuantityPrecision,
		"max_leverage", rules.MaxLeverage,
	)
	return rules, nil
}

// ParseSymbolRules converts exchange filters into SymbolRules. Leverage
// bounds are not part of exchange info; MinLeverage is set to 1 and
// MaxLeverage left for the caller.
func ParseSymbolRules(info model.SymbolInfo) (model.SymbolRules, error) {
	rules := model.SymbolRules{
		Symbol:            info.Symbol,
		PricePrecision:    int32(info.PricePrecision),
		QuantityPrecision: int32(info.QuantityPrecision),
		MinLeverage:       1,
	}

	var err error
	if f, ok := info.Filter(model.FilterLotSize); ok {
		if rules.StepSize, err = parseFilterValue(f.StepSize, "stepSize"); err != nil {
			return rules, err
		}
		if rules.MinQty, err = parseFilterValue(f.MinQty, "minQty"); err != nil {
			return rules, err
		}
		if rules.MaxQty, err = parseFilterValue(f.MaxQty, "maxQty"); err != nil {
			return rules, err
		}
	}
	if f, ok := info.Filter(model.FilterPrice); ok {
		if rules.TickSize, err = parseFilterValue(f.TickSize, "tickSize"); err != nil {
			return rules, err
		}
	}
	if f, ok := info.Filter(model.FilterMinNotional); ok {
		// futures payloads use "notional", older ones "minNotional"
		raw := f.Notional
		if raw == "" {
			raw = f.MinNotional
		}
		if rules.MinNotional, err = parseFilterValue(raw, "notional"); err != nil {
			return rules, err
		}
	}

	if !rules.StepSize.IsPositive() {
		return rules, fmt.Errorf("invalid rules for %s: step size %s", info.Symbol, rules.StepSize)
	}
	if rules.MinNotional.IsNegative() {
		return rules, fmt.Errorf("invalid rules for %s: min notional %s", info.Symbol, rules.MinNotional)
	}
	return rules, nil
}

func parseFilterValue(value, name string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return d, nil
}
