package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/urfave/cli/v2"

	"binance-futures-testnet-bot/internal/api"
	"binance-futures-testnet-bot/internal/config"
	"binance-futures-testnet-bot/internal/core"
	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
	"binance-futures-testnet-bot/internal/repository"
	"binance-futures-testnet-bot/internal/service"
)

const (
	exitRejected            = 1
	exitProviderUnavailable = 2
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "futures-bot",
		Usage: "validate and place orders on the Binance Futures testnet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "symbol", Aliases: []string{"s"}, Usage: "trading pair, e.g. BTCUSDT"},
			&cli.StringFlag{Name: "side", Usage: "BUY or SELL"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "MARKET", Usage: "MARKET, LIMIT or STOP_LIMIT"},
			&cli.StringFlag{Name: "quantity", Aliases: []string{"q"}, Usage: "order quantity in base asset"},
			&cli.StringFlag{Name: "price", Aliases: []string{"p"}, Usage: "limit price (LIMIT, STOP_LIMIT)"},
			&cli.StringFlag{Name: "stop-price", Usage: "stop trigger price (STOP_LIMIT)"},
			&cli.IntFlag{Name: "leverage", Aliases: []string{"l"}, Usage: "desired leverage, e.g. 20"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "prompt for every order field"},
			&cli.BoolFlag{Name: "dry-run", Usage: "validate only, do not submit"},
			&cli.BoolFlag{Name: "debug", Usage: "debug level logging"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "overall deadline for exchange calls"},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load configuration: %v", err), exitProviderUnavailable)
	}

	logger.Init(cfg.LogDir, cfg.Debug || c.Bool("debug"))
	logger.Info("Starting Binance Futures order bot", "testnet", cfg.Testnet, "margin_type", cfg.MarginType)

	if !cfg.HasCredentials() {
		return cli.Exit("❌ API keys missing. Put BINANCE_API_KEY and BINANCE_SECRET_KEY into .env", exitProviderUnavailable)
	}

	out := c.App.Writer
	input, err := collectInput(c, out)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to read input: %v", err), exitRejected)
	}

	intent, err := core.NewOrderIntent(input.Symbol, input.Side, input.Type, input.Quantity, input.Price, input.StopPrice, input.Leverage)
	if err != nil {
		service.AuditDecision(model.OrderIntent{Symbol: input.Symbol, Leverage: input.Leverage}, nil, err)
		printRejection(out, err)
		return cli.Exit("", exitRejected)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, c.Duration("timeout"))
	defer cancel()

	client := api.NewFuturesClient(cfg.BinanceApiKey, cfg.BinanceSecretKey, cfg.Testnet, cfg.RequestsPerSecond)
	if err := client.SyncTime(ctx); err != nil {
		logger.Warn("⚠️ Failed to synchronize time with Binance, using local time", "error", err)
	}

	validator := core.NewValidator(
		service.NewExchangeInfoService(client, repository.NewRulesCache(cfg.RulesCacheTTL)),
		service.NewAccountService(client, cfg.MarginAsset),
		service.NewMarketDataService(client),
		core.NewOrderSizer(),
		core.NewMarginEstimator(cfg.SafetyBufferPct),
	)

	order, err := validateWithRetry(ctx, validator, intent, cfg.MaxAttempts, newRetryBackoff())
	if err != nil {
		printRejection(out, err)
		if core.KindOf(err) == core.KindProviderUnavailable {
			return cli.Exit("", exitProviderUnavailable)
		}
		return cli.Exit("", exitRejected)
	}

	printSummary(out, intent, order)

	if c.Bool("dry-run") {
		fmt.Fprintln(out, "\nDry run: order not submitted.")
		return nil
	}

	orders := repository.NewOrderRepository(repository.NewStorage(cfg.LogDir))
	if err := orders.Load(); err != nil {
		logger.Error("Failed to load order history", "error", err)
	}
	submitter := service.NewOrderSubmitter(client, orders, cfg.MarginType)

	record, err := submitter.Submit(ctx, order)
	service.AuditSubmission(record, err)
	if err != nil {
		fmt.Fprintf(out, "\n❌ Order placement failed: %v\n", err)
		return cli.Exit("", exitProviderUnavailable)
	}

	fmt.Fprintf(out, "\n✅ %s order placed.\n", order.Type)
	fmt.Fprintln(out, "Order ID:", record.ExchangeID)
	fmt.Fprintln(out, "Status:", record.Status)
	fmt.Fprintln(out, "Executed Qty:", record.ExecutedQty)
	return nil
}

type intentValidator interface {
	Validate(ctx context.Context, intent model.OrderIntent) (*model.AdjustedOrder, error)
}

func newRetryBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}
}

// validateWithRetry repeats the whole validation while providers are
// unavailable, up to maxAttempts times. Deterministic rejections return at
// once.
func validateWithRetry(ctx context.Context, validator intentValidator, intent model.OrderIntent, maxAttempts int, b *backoff.Backoff) (*model.AdjustedOrder, error) {
	for {
		order, err := validator.Validate(ctx, intent)
		service.AuditDecision(intent, order, err)

		var r *core.Rejection
		if err == nil || !errors.As(err, &r) || !r.Retryable() || int(b.Attempt())+1 >= maxAttempts {
			return order, err
		}

		wait := b.Duration()
		logger.Warn("Provider unavailable, retrying validation", "attempt", int(b.Attempt()), "wait", wait.String(), "error", err)
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(wait):
		}
	}
}

func printSummary(w io.Writer, intent model.OrderIntent, order *model.AdjustedOrder) {
	fmt.Fprintf(w, "\nSymbol: %s\n", order.Symbol)
	fmt.Fprintf(w, "Side / Type: %s %s\n", order.Side, order.Type)
	if order.Type == model.OrderTypeMarket {
		fmt.Fprintf(w, "Mark price: %s\n", order.ReferencePrice)
	} else {
		fmt.Fprintf(w, "Limit price: %s\n", order.Price)
	}
	if order.Type == model.OrderTypeStopLimit {
		fmt.Fprintf(w, "Stop price: %s\n", order.StopPrice)
	}
	fmt.Fprintf(w, "Requested qty: %s -> Adjusted qty: %s\n", intent.Quantity, order.Quantity)
	fmt.Fprintf(w, "Notional: %s USDT\n", order.Notional.StringFixed(2))
	fmt.Fprintf(w, "Leverage: %dx\n", order.Leverage)
	fmt.Fprintf(w, "Available balance: %s\n", order.AvailableBalance)
	fmt.Fprintf(w, "Estimated required margin (with buffer): %s USDT\n", order.RequiredMargin.StringFixed(6))
}

func printRejection(w io.Writer, err error) {
	fmt.Fprintf(w, "\n❌ Order rejected: %v\n", err)
	if hints := suggestions(core.KindOf(err)); len(hints) > 0 {
		fmt.Fprintln(w, "Options:")
		for _, h := range hints {
			fmt.Fprintf(w, " - %s\n", h)
		}
	}
}

func suggestions(kind core.Kind) []string {
	switch kind {
	case core.KindUnknownSymbol:
		return []string{"Check the symbol spelling (e.g. BTCUSDT, ETHUSDT)"}
	case core.KindUnsupportedOrderType:
		return []string{"Use MARKET, LIMIT or STOP_LIMIT"}
	case core.KindInvalidSide:
		return []string{"Use BUY or SELL"}
	case core.KindMissingPrice:
		return []string{"Pass --price for LIMIT orders and both --price and --stop-price for STOP_LIMIT"}
	case core.KindInvalidQuantity:
		return []string{"Use a quantity of at least one step size of the symbol"}
	case core.KindMinNotional:
		return []string{"Try a larger quantity", "Use a cheaper symbol like ETHUSDT"}
	case core.KindInvalidLeverage:
		return []string{"Pick a leverage within the symbol's allowed range"}
	case core.KindInsufficientMargin:
		return []string{
			"Increase leverage (if allowed)",
			"Use a smaller quantity or a cheaper symbol (e.g., ETHUSDT)",
			"Fund your testnet wallet from the testnet faucet",
		}
	case core.KindProviderUnavailable:
		return []string{"Check network access and API keys, then retry"}
	}
	return nil
}
