package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"golang.org/x/time/rate"

	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
)

// CodeNoNeedToChangeMarginType is returned when the margin type is already set
const CodeNoNeedToChangeMarginType = -4046

// FuturesClient wraps the go-binance USDⓈ-M futures client behind a
// client-side rate limit.
type FuturesClient struct {
	Client     *futures.Client
	limiter    *rate.Limiter
	TimeOffset int64
}

func NewFuturesClient(apiKey, secretKey string, testnet bool, requestsPerSecond float64) *FuturesClient {
	futures.UseTestnet = testnet
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &FuturesClient{
		Client:  futures.NewClient(apiKey, secretKey),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

func (c *FuturesClient) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// SyncTime synchronizes the client's request timestamps with server time
func (c *FuturesClient) SyncTime(ctx context.Context) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	offset, err := c.Client.NewSetServerTimeService().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get server time: %w", err)
	}
	c.TimeOffset = offset
	logger.Info("⏰ Time Synchronized", "offset_ms", offset)
	return nil
}

// GetExchangeInfo fetches trading rules for every listed futures symbol
func (c *FuturesClient) GetExchangeInfo(ctx context.Context) (*model.ExchangeInfoResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	res, err := c.Client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}

	info := &model.ExchangeInfoResponse{Symbols: make([]model.SymbolInfo, 0, len(res.Symbols))}
	for _, s := range res.Symbols {
		info.Symbols = append(info.Symbols, model.SymbolInfo{
			Symbol:            s.Symbol,
			Status:            s.Status,
			MarginAsset:       s.MarginAsset,
			PricePrecision:    s.PricePrecision,
			QuantityPrecision: s.QuantityPrecision,
			Filters:           convertFilters(s.Filters),
		})
	}
	return info, nil
}

func convertFilters(raw []map[string]interface{}) []model.Filter {
	filters := make([]model.Filter, 0, len(raw))
	for _, f := range raw {
		filters = append(filters, model.Filter{
			FilterType:  str(f["filterType"]),
			TickSize:    str(f["tickSize"]),
			StepSize:    str(f["stepSize"]),
			MinQty:      str(f["minQty"]),
			MaxQty:      str(f["maxQty"]),
			MinNotional: str(f["minNotional"]),
			Notional:    str(f["notional"]),
		})
	}
	return filters
}

func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// GetMaxLeverage returns the initial leverage of the first notional bracket
func (c *FuturesClient) GetMaxLeverage(ctx context.Context, symbol string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	brackets, err := c.Client.NewGetLeverageBracketService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get leverage brackets: %w", err)
	}
	maxLeverage := 0
	for _, b := range brackets {
		if b.Symbol != symbol {
			continue
		}
		for _, br := range b.Brackets {
			if br.InitialLeverage > maxLeverage {
				maxLeverage = br.InitialLeverage
			}
		}
	}
	if maxLeverage == 0 {
		return 0, fmt.Errorf("no leverage brackets for %s", symbol)
	}
	return maxLeverage, nil
}

// GetMarkPrice returns the current mark price as sent by the exchange, or
// an empty string when the premium index carries none for symbol.
func (c *FuturesClient) GetMarkPrice(ctx context.Context, symbol string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	res, err := c.Client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get mark price: %w", err)
	}
	for _, p := range res {
		if p.Symbol == symbol {
			return p.MarkPrice, nil
		}
	}
	return "", nil
}

// GetLastPrice returns the latest traded price from the symbol ticker
func (c *FuturesClient) GetLastPrice(ctx context.Context, symbol string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	res, err := c.Client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get ticker price: %w", err)
	}
	for _, p := range res {
		if p.Symbol == symbol {
			return p.Price, nil
		}
	}
	return "", fmt.Errorf("no ticker price for %s", symbol)
}

// GetAvailableBalance returns the available balance of asset in the futures wallet
func (c *FuturesClient) GetAvailableBalance(ctx context.Context, asset string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	balances, err := c.Client.NewGetBalanceService().Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get balances: %w", err)
	}
	for _, b := range balances {
		if b.Asset == asset {
			if b.AvailableBalance != "" {
				return b.AvailableBalance, nil
			}
			return b.Balance, nil
		}
	}
	return "0", nil
}

// GetPositionLeverage returns the leverage currently configured for symbol
func (c *FuturesClient) GetPositionLeverage(ctx context.Context, symbol string) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	positions, err := c.Client.NewGetPositionRiskService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get position risk: %w", err)
	}
	for _, p := range positions {
		if p.Symbol != symbol {
			continue
		}
		lev, err := strconv.Atoi(p.Leverage)
		if err != nil {
			return 0, fmt.Errorf("invalid leverage %q: %w", p.Leverage, err)
		}
		return lev, nil
	}
	return 0, nil
}

// ChangeLeverage sets the initial leverage used for new orders on symbol
func (c *FuturesClient) ChangeLeverage(ctx context.Context, symbol string, leverage int) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	res, err := c.Client.NewChangeLeverageService().Symbol(symbol).Leverage(leverage).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to change leverage: %w", err)
	}
	logger.Info("Set leverage", "symbol", symbol, "leverage", res.Leverage, "max_notional", res.MaxNotionalValue)
	return nil
}

// ChangeMarginType sets ISOLATED or CROSSED margin for symbol. An already
// matching margin type is not an error.
func (c *FuturesClient) ChangeMarginType(ctx context.Context, symbol, marginType string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	err := c.Client.NewChangeMarginTypeService().Symbol(symbol).MarginType(futures.MarginType(marginType)).Do(ctx)
	if err != nil {
		if IsAPIErrorCode(err, CodeNoNeedToChangeMarginType) {
			logger.Debug("Margin type unchanged", "symbol", symbol, "margin_type", marginType)
			return nil
		}
		return fmt.Errorf("failed to change margin type: %w", err)
	}
	logger.Info("Set margin type", "symbol", symbol, "margin_type", marginType)
	return nil
}

type OrderRequest struct {
	Symbol           string
	Side             string
	Type             string
	TimeInForce      string
	Quantity         string
	Price            string
	StopPrice        string
	NewClientOrderID string
}

type OrderResponse struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
	Price         string
	OrigQty       string
	ExecutedQty   string
	Status        string
	Type          string
	Side          string
}

// CreateOrder places an order. STOP_LIMIT maps to the futures STOP type,
// which takes both a price and a stop price.
func (c *FuturesClient) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	orderType := futures.OrderType(req.Type)
	if req.Type == string(model.OrderTypeStopLimit) {
		orderType = futures.OrderTypeStop
	}

	svc := c.Client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(futures.SideType(req.Side)).
		Type(orderType).
		Quantity(req.Quantity)

	if req.TimeInForce != "" {
		svc.TimeInForce(futures.TimeInForceType(req.TimeInForce))
	}
	if req.Price != "" {
		svc.Price(req.Price)
	}
	if req.StopPrice != "" {
		svc.StopPrice(req.StopPrice)
	}
	if req.NewClientOrderID != "" {
		svc.NewClientOrderID(req.NewClientOrderID)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		logger.Error("Binance Order Error", "symbol", req.Symbol, "error", err)
		return nil, fmt.Errorf("api error: %w", err)
	}

	return &OrderResponse{
		Symbol:        res.Symbol,
		OrderID:       res.OrderID,
		ClientOrderID: res.ClientOrderID,
		Price:         res.Price,
		OrigQty:       res.OrigQuantity,
		ExecutedQty:   res.ExecutedQuantity,
		Status:        string(res.Status),
		Type:          string(res.Type),
		Side:          string(res.Side),
	}, nil
}

// IsAPIErrorCode reports whether err carries a Binance API error with code
func IsAPIErrorCode(err error, code int64) bool {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
