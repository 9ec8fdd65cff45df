package service

import (
	"errors"

	"binance-futures-testnet-bot/internal/core"
	"binance-futures-testnet-bot/internal/logger"
	"binance-futures-testnet-bot/internal/model"
)

// AuditDecision appends one line per validation decision to the audit log
func AuditDecision(intent model.OrderIntent, order *model.AdjustedOrder, err error) {
	if err == nil && order != nil {
		logger.Audit("ACCEPTED",
			"intent", intent.String(),
			"quantity", order.Quantity.String(),
			"reference_price", order.ReferencePrice.String(),
			"notional", order.Notional.String(),
			"required_margin", order.RequiredMargin.String(),
			"leverage", order.Leverage,
		)
		return
	}

	var r *core.Rejection
	if errors.As(err, &r) {
		logger.Audit("REJECTED",
			"intent", intent.String(),
			"kind", string(r.Kind),
			"stage", string(r.Stage),
			"rule", r.Rule,
			"threshold", r.Threshold,
			"observed", r.Observed,
		)
		return
	}
	logger.Audit("ERROR", "intent", intent.String(), "error", err)
}

// AuditSubmission records the exchange's answer to a submitted order
func AuditSubmission(record *model.OrderRecord, err error) {
	if err != nil {
		logger.Audit("SUBMIT_FAILED", "error", err)
		return
	}
	logger.Audit("SUBMITTED",
		"symbol", record.Symbol,
		"order_id", record.ExchangeID,
		"client_order_id", record.ID,
		"status", record.Status,
		"executed_qty", record.ExecutedQty,
	)
}
