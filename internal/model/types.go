package model

import "time"

// OrderRecord represents an order submitted to the exchange
type OrderRecord struct {
	ID             string    `json:"id"`
	ClientOrderID  string    `json:"clientOrderId"`
	ExchangeID     int64     `json:"exchangeId"`
	Symbol         string    `json:"symbol"`
	Side           string    `json:"side"`
	Type           string    `json:"type"`
	Quantity       string    `json:"quantity"`
	Price          string    `json:"price,omitempty"`
	StopPrice      string    `json:"stopPrice,omitempty"`
	Leverage       int       `json:"leverage"`
	Notional       string    `json:"notional"`
	RequiredMargin string    `json:"requiredMargin"`
	Status         string    `json:"status"`
	ExecutedQty    string    `json:"executedQty"`
	CreatedAt      time.Time `json:"createdAt"`
}
