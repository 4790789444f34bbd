package recon

import "storeflow/internal/models"

// Decision is the outcome of comparing freshly observed gateway status with
// the stored payment/order snapshot.
type Decision struct {
	// UpdateNeeded says the payment or the order record is out of line with
	// the observed status and must be patched. It stays true when only one
	// of the two drifted, so a pass that crashed between the two writes is
	// repaired by the next event carrying the same status.
	UpdateNeeded bool

	// FulfillmentAuthorized gates account provisioning, access grants and
	// the confirmation email. It re-triggers on an order already marked
	// paid but still missing its buyer-account link, so a failed
	// provisioning attempt is retried by a later event.
	FulfillmentAuthorized bool
}

// Decide is pure; it must be called with a snapshot read at the start of the
// invocation, never with state cached from an earlier one.
func Decide(payment models.Payment, order models.Order, newStatus models.PaymentStatus) Decision {
	var d Decision

	d.UpdateNeeded = payment.Status != newStatus || order.Status != newStatus

	if newStatus == models.PaymentStatusPaid {
		d.FulfillmentAuthorized = payment.Status != models.PaymentStatusPaid ||
			order.Status != models.PaymentStatusPaid ||
			order.CustomerUserID == ""
	}

	return d
}
