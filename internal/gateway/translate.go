package gateway

import "storeflow/internal/models"

// nativeStatus maps every gateway-native status the system understands to
// the canonical four-value vocabulary. Mercado Pago and Midtrans
// vocabularies live in the same table; they do not collide on meaning.
var nativeStatus = map[string]models.PaymentStatus{
	// Mercado Pago
	"approved":     models.PaymentStatusPaid,
	"authorized":   models.PaymentStatusPending,
	"in_process":   models.PaymentStatusPending,
	"in_mediation": models.PaymentStatusPending,
	"rejected":     models.PaymentStatusFailed,
	"cancelled":    models.PaymentStatusFailed,
	"refunded":     models.PaymentStatusRefunded,
	"charged_back": models.PaymentStatusRefunded,

	// Midtrans
	"settlement":     models.PaymentStatusPaid,
	"capture":        models.PaymentStatusPaid,
	"deny":           models.PaymentStatusFailed,
	"cancel":         models.PaymentStatusFailed,
	"expire":         models.PaymentStatusFailed,
	"failure":        models.PaymentStatusFailed,
	"refund":         models.PaymentStatusRefunded,
	"partial_refund": models.PaymentStatusRefunded,

	"pending": models.PaymentStatusPending,
}

// Translate maps a gateway-native status to a canonical status. Unrecognized
// input yields pending, so a new gateway status can never trigger a
// destructive transition.
func Translate(native string) models.PaymentStatus {
	if s, ok := nativeStatus[native]; ok {
		return s
	}
	return models.PaymentStatusPending
}
