package repository

import (
	"sync"

	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
)

const ordersFile = "orders.json"

// OrderRepository records orders submitted to the exchange
type OrderRepository struct {
	storage *Storage
	orders  []model.OrderRecord
	mu      sync.RWMutex
}

func NewOrderRepository(storage *Storage) *OrderRepository {
	return &OrderRepository{
		storage: storage,
		orders:  []model.OrderRecord{},
	}
}

func (r *OrderRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.storage.Exists(ordersFile) {
		logger.Info("orders.json not found, starting empty")
		return nil
	}
	return r.storage.Read(ordersFile, &r.orders)
}

func (r *OrderRepository) Save(order model.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, order)
	return r.storage.Write(ordersFile, r.orders)
}

func (r *OrderRepository) GetAll() []model.OrderRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make([]model.OrderRecord, len(r.orders))
	copy(copied, r.orders)
	return copied
}
