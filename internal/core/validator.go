package core

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
)

// ExchangeInfoProvider supplies per-symbol trading rules. Implementations
// wrap ErrSymbolNotFound for symbols the exchange does not list.
type ExchangeInfoProvider interface {
	GetSymbolRules(ctx context.Context, symbol string) (model.SymbolRules, error)
}

// AccountStateProvider supplies a fresh account snapshot.
type AccountStateProvider interface {
	GetAccountState(ctx context.Context, symbol string) (model.AccountState, error)
}

// PriceFeed supplies the mark price used to value MARKET orders.
type PriceFeed interface {
	GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Sizer is implemented by OrderSizer
type Sizer interface {
	AdjustQuantity(requested, stepSize decimal.Decimal, precision int32) (decimal.Decimal, error)
	CheckLotBounds(qty decimal.Decimal, rules model.SymbolRules) error
	CheckMinNotional(qty, referencePrice, minNotional decimal.Decimal) (decimal.Decimal, error)
}

// Estimator is implemented by MarginEstimator
type Estimator interface {
	EstimateMargin(notional decimal.Decimal, leverage int, rules model.SymbolRules) (decimal.Decimal, error)
	CheckAffordability(required, available decimal.Decimal) error
}

// Validator turns an OrderIntent into an exchange-compliant AdjustedOrder or
// a *Rejection. It keeps no state between calls and never retries.
type Validator struct {
	Rules   ExchangeInfoProvider
	Account AccountStateProvider
	Prices  PriceFeed
	Sizer   Sizer
	Margin  Estimator
}

func NewValidator(rules ExchangeInfoProvider, account AccountStateProvider, prices PriceFeed, sizer Sizer, margin Estimator) *Validator {
	return &Validator{
		Rules:   rules,
		Account: account,
		Prices:  prices,
		Sizer:   sizer,
		Margin:  margin,
	}
}

// Validate runs the pre-trade pipeline:
//
//	Received -> RulesFetched -> Sized -> MarginChecked -> Decided
//
// The first failing check ends the pipeline. On rejection the returned error
// is a *Rejection whose Stage is the last stage completed.
// Leverage >= 1 is enforced by NewOrderIntent; for intents built by hand it is
// only checked at the margin step, after sizing.
func (v *Validator) Validate(ctx context.Context, intent model.OrderIntent) (*model.AdjustedOrder, error) {
	stage := StageReceived

	// 1. Rules
	rules, err := v.Rules.GetSymbolRules(ctx, intent.Symbol)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return nil, v.fail(intent, stage, &Rejection{Kind: KindUnknownSymbol, Rule: "symbol not listed", Observed: intent.Symbol, Err: err})
		}
		return nil, v.fail(intent, stage, unavailable("exchange info", err))
	}
	stage = StageRulesFetched

	// 2-3. Type, side, prices
	if r := checkIntent(intent); r != nil {
		return nil, v.fail(intent, stage, r)
	}

	// 4. Quantity
	qty, err := v.Sizer.AdjustQuantity(intent.Quantity, rules.StepSize, rules.QuantityPrecision)
	if err != nil {
		return nil, v.fail(intent, stage, err)
	}
	if err := v.Sizer.CheckLotBounds(qty, rules); err != nil {
		return nil, v.fail(intent, stage, err)
	}

	// 5. Notional
	refPrice := intent.Price
	if intent.Type == model.OrderTypeMarket {
		mark, err := v.Prices.GetMarkPrice(ctx, intent.Symbol)
		if err != nil {
			return nil, v.fail(intent, stage, unavailable("mark price", err))
		}
		if !mark.IsPositive() {
			return nil, v.fail(intent, stage, unavailable("mark price", errors.New("mark price not positive: "+mark.String())))
		}
		refPrice = mark
	}
	notional, err := v.Sizer.CheckMinNotional(qty, refPrice, rules.MinNotional)
	if err != nil {
		return nil, v.fail(intent, stage, err)
	}
	stage = StageSized

	// 6. Margin
	required, err := v.Margin.EstimateMargin(notional, intent.Leverage, rules)
	if err != nil {
		return nil, v.fail(intent, stage, err)
	}

	// 7. Affordability
	account, err := v.Account.GetAccountState(ctx, intent.Symbol)
	if err != nil {
		return nil, v.fail(intent, stage, unavailable("account state", err))
	}
	if err := v.Margin.CheckAffordability(required, account.AvailableBalance); err != nil {
		return nil, v.fail(intent, stage, err)
	}

	// 8. Accepted
	order := &model.AdjustedOrder{
		Symbol:            intent.Symbol,
		Side:              intent.Side,
		Type:              intent.Type,
		Quantity:          qty,
		Price:             intent.Price,
		StopPrice:         intent.StopPrice,
		ReferencePrice:    refPrice,
		Notional:          notional,
		RequiredMargin:    required,
		AvailableBalance:  account.AvailableBalance,
		Leverage:          intent.Leverage,
		CurrentLeverage:   account.Leverage,
		QuantityPrecision: rules.QuantityPrecision,
	}
	logger.Debug("Order intent accepted",
		"symbol", order.Symbol,
		"stage", string(StageDecided),
		"requested_qty", intent.Quantity.String(),
		"adjusted_qty", order.Quantity.String(),
		"notional", order.Notional.String(),
		"required_margin", order.RequiredMargin.String(),
		"available", account.AvailableBalance.String(),
	)
	return order, nil
}

// fail stamps the stage on a rejection. Errors that are not rejections are
// treated as provider failures.
func (v *Validator) fail(intent model.OrderIntent, stage Stage, err error) error {
	var r *Rejection
	if !errors.As(err, &r) {
		r = unavailable("validation", err)
	}
	r.Stage = stage
	logger.Debug("Order intent rejected", "symbol", intent.Symbol, "kind", string(r.Kind), "stage", string(r.Stage), "reason", r.Error())
	return r
}
