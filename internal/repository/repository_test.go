package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"binance-futures-testnet-bot/internal/model"
)

func TestRulesCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewRulesCache(time.Minute)
	cache.now = func() time.Time { return now }

	rules := model.SymbolRules{Symbol: "BTCUSDT", StepSize: decimal.RequireFromString("0.001")}
	cache.Set(rules)

	got, ok := cache.Get("BTCUSDT")
	require.True(t, ok)
	assert.True(t, got.StepSize.Equal(rules.StepSize))

	now = now.Add(59 * time.Second)
	_, ok = cache.Get("BTCUSDT")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get("BTCUSDT")
	assert.False(t, ok, "entry should expire after ttl")

	_, ok = cache.Get("ETHUSDT")
	assert.False(t, ok)
}

func TestRulesCacheNoTTL(t *testing.T) {
	now := time.Now()
	cache := NewRulesCache(0)
	cache.now = func() time.Time { return now }
	cache.Set(model.SymbolRules{Symbol: "ETHUSDT"})

	now = now.Add(24 * time.Hour)
	_, ok := cache.Get("ETHUSDT")
	assert.True(t, ok)
}

func TestOrderRepositoryPersists(t *testing.T) {
	dir := t.TempDir()
	repo := NewOrderRepository(NewStorage(dir))
	require.NoError(t, repo.Load())
	assert.Empty(t, repo.GetAll())

	record := model.OrderRecord{
		ID:         "a1",
		ExchangeID: 42,
		Symbol:     "BTCUSDT",
		Side:       "BUY",
		Type:       "MARKET",
		Quantity:   "0.003",
		Leverage:   20,
		Status:     "NEW",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(record))

	reloaded := NewOrderRepository(NewStorage(dir))
	require.NoError(t, reloaded.Load())
	all := reloaded.GetAll()
	require.Len(t, all, 1)
	assert.Equal(t, record, all[0])
}
