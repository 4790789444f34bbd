package recon

import (
	"context"
	"encoding/json"

	"storeflow/internal/models"
)

// audit appends one row to the reconciliation log. The log is forensics
// only; a failed append is logged and otherwise ignored so auditing can
// never break the pipeline it observes.
func (r *Reconciler) audit(ctx context.Context, event, level, transactionID string, orderID uint, metadata map[string]interface{}) {
	var raw json.RawMessage
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			raw = data
		}
	}

	entry := models.ReconciliationLog{
		Event:         event,
		Level:         level,
		TransactionID: transactionID,
		OrderID:       orderID,
		Metadata:      raw,
	}
	if err := r.store.AppendAudit(ctx, entry); err != nil {
		r.logger.Warnw("failed to append audit entry", "event", event, "error", err)
	}
}
