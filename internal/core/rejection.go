package core

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why an order intent was rejected
type Kind string

const (
	KindUnknownSymbol        Kind = "UnknownSymbol"
	KindUnsupportedOrderType Kind = "UnsupportedOrderType"
	KindInvalidSide          Kind = "InvalidSide"
	KindMissingPrice         Kind = "MissingPrice"
	KindInvalidQuantity      Kind = "InvalidQuantity"
	KindMinNotional          Kind = "MinNotionalViolation"
	KindInvalidLeverage      Kind = "InvalidLeverage"
	KindInsufficientMargin   Kind = "InsufficientMargin"
	KindProviderUnavailable  Kind = "ProviderUnavailable"
)

// Stage is the last validation stage an intent reached
type Stage string

const (
	StageReceived      Stage = "Received"
	StageRulesFetched  Stage = "RulesFetched"
	StageSized         Stage = "Sized"
	StageMarginChecked Stage = "MarginChecked"
	StageDecided       Stage = "Decided"
)

// ErrSymbolNotFound is wrapped by ExchangeInfoProvider implementations when
// the exchange does not list the requested symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Rejection is the error returned for every refused order intent. Rule,
// Threshold and Observed describe the violated constraint so the user can
// correct the input.
type Rejection struct {
	Kind      Kind
	Stage     Stage
	Rule      string
	Threshold string
	Observed  string
	Err       error
}

func (r *Rejection) Error() string {
	var b strings.Builder
	b.WriteString(string(r.Kind))
	if r.Rule != "" {
		fmt.Fprintf(&b, ": %s", r.Rule)
	}
	if r.Threshold != "" {
		fmt.Fprintf(&b, " (threshold %s", r.Threshold)
		if r.Observed != "" {
			fmt.Fprintf(&b, ", observed %s", r.Observed)
		}
		b.WriteString(")")
	} else if r.Observed != "" {
		fmt.Fprintf(&b, " (observed %s)", r.Observed)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, ": %v", r.Err)
	}
	return b.String()
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Retryable reports whether resubmitting the same intent may succeed
func (r *Rejection) Retryable() bool {
	return r.Kind == KindProviderUnavailable
}

func reject(kind Kind, rule, threshold, observed string) *Rejection {
	return &Rejection{Kind: kind, Rule: rule, Threshold: threshold, Observed: observed}
}

func unavailable(what string, err error) *Rejection {
	return &Rejection{Kind: KindProviderUnavailable, Rule: what, Err: err}
}

// KindOf returns the rejection kind carried by err, or "" when err is not a
// rejection.
func KindOf(err error) Kind {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Kind
	}
	return ""
}
