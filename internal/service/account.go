package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/model"
)

type accountClient interface {
	GetAvailableBalance(ctx context.Context, asset string) (string, error)
	GetPositionLeverage(ctx context.Context, symbol string) (int, error)
}

// AccountService snapshots the futures wallet for one validation attempt
type AccountService struct {
	Client accountClient
	Asset  string
}

func NewAccountService(client accountClient, asset string) *AccountService {
	return &AccountService{
		Client: client,
		Asset:  asset,
	}
}

func (s *AccountService) GetAccountState(ctx context.Context, symbol string) (model.AccountState, error) {
	raw, err := s.Client.GetAvailableBalance(ctx, s.Asset)
	if err != nil {
		return model.AccountState{}, err
	}
	available, err := decimal.NewFromString(raw)
	if err != nil {
		return model.AccountState{}, fmt.Errorf("invalid %s balance %q: %w", s.Asset, raw, err)
	}

	leverage, err := s.Client.GetPositionLeverage(ctx, symbol)
	if err != nil {
		return model.AccountState{}, err
	}

	return model.AccountState{
		Asset:            s.Asset,
		AvailableBalance: available,
		Leverage:         leverage,
	}, nil
}
