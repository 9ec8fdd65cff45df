package repository

import (
	"sync"
	"time"

	"binance-futures-testnet-bot/internal/model"
)

// RulesCache keeps SymbolRules for a bounded time. Entries are replaced
// wholesale, never mutated.
type RulesCache struct {
	ttl     time.Duration
	now     func() time.Time
	entries map[string]rulesEntry
	mu      sync.RWMutex
}

type rulesEntry struct {
	rules     model.SymbolRules
	fetchedAt time.Time
}

// NewRulesCache returns a cache whose entries expire after ttl. A ttl of zero
// keeps entries for the life of the process.
func NewRulesCache(ttl time.Duration) *RulesCache {
	return &RulesCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]rulesEntry),
	}
}

func (c *RulesCache) Get(symbol string) (model.SymbolRules, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[symbol]
	if !ok {
		return model.SymbolRules{}, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) >= c.ttl {
		return model.SymbolRules{}, false
	}
	return e.rules, true
}

func (c *RulesCache) Set(rules model.SymbolRules) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rules.Symbol] = rulesEntry{rules: rules, fetchedAt: c.now()}
}
