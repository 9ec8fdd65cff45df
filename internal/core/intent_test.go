package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binance-futures-testnet-bot/internal/model"
)

func TestNewOrderIntent(t *testing.T) {
	intent, err := NewOrderIntent(" btcusdt ", "buy", "market", "0.0034", "", "", 20)
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", intent.Symbol)
	assert.Equal(t, model.SideBuy, intent.Side)
	assert.Equal(t, model.OrderTypeMarket, intent.Type)
	assert.Equal(t, "0.0034", intent.Quantity.String())
	assert.Equal(t, 20, intent.Leverage)

	t.Run("market drops prices", func(t *testing.T) {
		intent, err := NewOrderIntent("BTCUSDT", "SELL", "MARKET", "1", "90000", "89000", 5)
		require.NoError(t, err)
		assert.True(t, intent.Price.IsZero())
		assert.True(t, intent.StopPrice.IsZero())
	})

	t.Run("limit drops stop price", func(t *testing.T) {
		intent, err := NewOrderIntent("BTCUSDT", "SELL", "LIMIT", "1", "90000", "89000", 5)
		require.NoError(t, err)
		assert.Equal(t, "90000", intent.Price.String())
		assert.True(t, intent.StopPrice.IsZero())
	})

	t.Run("stop limit keeps both", func(t *testing.T) {
		intent, err := NewOrderIntent("ETHUSDT", "BUY", "STOP_LIMIT", "0.5", "3000", "2990", 5)
		require.NoError(t, err)
		assert.Equal(t, "3000", intent.Price.String())
		assert.Equal(t, "2990", intent.StopPrice.String())
	})
}

func TestNewOrderIntentRejections(t *testing.T) {
	tests := []struct {
		name      string
		symbol    string
		side      string
		orderType string
		qty       string
		price     string
		stopPrice string
		leverage  int
		want      Kind
	}{
		{name: "zero leverage wins over everything", symbol: "", side: "HOLD", orderType: "TWAP", qty: "abc", leverage: 0, want: KindInvalidLeverage},
		{name: "negative leverage", symbol: "BTCUSDT", side: "BUY", orderType: "MARKET", qty: "1", leverage: -1, want: KindInvalidLeverage},
		{name: "empty symbol", symbol: " ", side: "BUY", orderType: "MARKET", qty: "1", leverage: 5, want: KindUnknownSymbol},
		{name: "quantity not a number", symbol: "BTCUSDT", side: "BUY", orderType: "MARKET", qty: "lots", leverage: 5, want: KindInvalidQuantity},
		{name: "zero quantity", symbol: "BTCUSDT", side: "BUY", orderType: "MARKET", qty: "0", leverage: 5, want: KindInvalidQuantity},
		{name: "unsupported type", symbol: "BTCUSDT", side: "BUY", orderType: "OCO", qty: "1", leverage: 5, want: KindUnsupportedOrderType},
		{name: "invalid side", symbol: "BTCUSDT", side: "LONG", orderType: "MARKET", qty: "1", leverage: 5, want: KindInvalidSide},
		{name: "limit without price", symbol: "BTCUSDT", side: "BUY", orderType: "LIMIT", qty: "1", leverage: 5, want: KindMissingPrice},
		{name: "limit price not a number", symbol: "BTCUSDT", side: "BUY", orderType: "LIMIT", qty: "1", price: "cheap", leverage: 5, want: KindMissingPrice},
		{name: "negative limit price", symbol: "BTCUSDT", side: "BUY", orderType: "LIMIT", qty: "1", price: "-5", leverage: 5, want: KindMissingPrice},
		{name: "stop limit without stop", symbol: "BTCUSDT", side: "BUY", orderType: "STOP_LIMIT", qty: "1", price: "100", leverage: 5, want: KindMissingPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrderIntent(tt.symbol, tt.side, tt.orderType, tt.qty, tt.price, tt.stopPrice, tt.leverage)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestRejectionError(t *testing.T) {
	r := reject(KindMinNotional, "order value below minimum notional", "100", "87.10617")
	assert.Equal(t, "MinNotionalViolation: order value below minimum notional (threshold 100, observed 87.10617)", r.Error())
	assert.False(t, r.Retryable())

	u := unavailable("mark price", assert.AnError)
	assert.Contains(t, u.Error(), "ProviderUnavailable: mark price")
	assert.ErrorIs(t, u, assert.AnError)
	assert.True(t, u.Retryable())

	assert.Equal(t, Kind(""), KindOf(assert.AnError))
	assert.Equal(t, Kind(""), KindOf(nil))
}
