package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"binance-futures-testnet-bot/internal/api"
	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
	"binance-futures-testnet-bot/internal/repository"
)

type orderClient interface {
	ChangeMarginType(ctx context.Context, symbol, marginType string) error
	ChangeLeverage(ctx context.Context, symbol string, leverage int) error
	CreateOrder(ctx context.Context, req api.OrderRequest) (*api.OrderResponse, error)
}

// OrderSubmitter places accepted orders on the exchange and records them
type OrderSubmitter struct {
	Client     orderClient
	Orders     *repository.OrderRepository
	MarginType string
	newID      func() string
	now        func() time.Time
}

func NewOrderSubmitter(client orderClient, orders *repository.OrderRepository, marginType string) *OrderSubmitter {
	return &OrderSubmitter{
		Client:     client,
		Orders:     orders,
		MarginType: marginType,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Submit sets margin type and leverage for the symbol, then places the order.
// Leverage is only changed when it differs from the account's current value.
func (s *OrderSubmitter) Submit(ctx context.Context, order *model.AdjustedOrder) (*model.OrderRecord, error) {
	if s.MarginType != "" {
		if err := s.Client.ChangeMarginType(ctx, order.Symbol, s.MarginType); err != nil {
			return nil, err
		}
	}
	if order.CurrentLeverage != order.Leverage {
		if err := s.Client.ChangeLeverage(ctx, order.Symbol, order.Leverage); err != nil {
			return nil, err
		}
	}

	req := BuildOrderRequest(order, s.newID())
	logger.Info("📤 Submitting order",
		"symbol", req.Symbol,
		"side", req.Side,
		"type", req.Type,
		"quantity", req.Quantity,
		"price", req.Price,
		"stop_price", req.StopPrice,
		"client_order_id", req.NewClientOrderID,
	)

	res, err := s.Client.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	record := model.OrderRecord{
		ID:             req.NewClientOrderID,
		ClientOrderID:  res.ClientOrderID,
		ExchangeID:     res.OrderID,
		Symbol:         order.Symbol,
		Side:           string(order.Side),
		Type:           string(order.Type),
		Quantity:       req.Quantity,
		Price:          req.Price,
		StopPrice:      req.StopPrice,
		Leverage:       order.Leverage,
		Notional:       order.Notional.String(),
		RequiredMargin: order.RequiredMargin.String(),
		Status:         res.Status,
		ExecutedQty:    res.ExecutedQty,
		CreatedAt:      s.now(),
	}
	if s.Orders != nil {
		if err := s.Orders.Save(record); err != nil {
			logger.Error("Failed to record submitted order", "order_id", res.OrderID, "error", err)
		}
	}

	logger.Info("✅ Order placed", "symbol", record.Symbol, "order_id", record.ExchangeID, "status", record.Status)
	return &record, nil
}

// BuildOrderRequest renders an AdjustedOrder for the exchange. Quantity is
// printed at the symbol's quantity precision; prices are sent as entered.
// Limit orders rest until cancelled (GTC).
func BuildOrderRequest(order *model.AdjustedOrder, clientOrderID string) api.OrderRequest {
	req := api.OrderRequest{
		Symbol:           order.Symbol,
		Side:             string(order.Side),
		Type:             string(order.Type),
		Quantity:         order.Quantity.StringFixed(order.QuantityPrecision),
		NewClientOrderID: clientOrderID,
	}
	if order.Type.RequiresPrice() {
		req.TimeInForce = "GTC"
		req.Price = order.Price.String()
	}
	if order.Type == model.OrderTypeStopLimit {
		req.StopPrice = order.StopPrice.String()
	}
	return req
}
