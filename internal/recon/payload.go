package recon

import (
	"strings"

	"storeflow/internal/models"
)

// EventForStatus derives the merchant-facing event name for a canonical
// status transition.
func EventForStatus(status models.PaymentStatus) string {
	switch status {
	case models.PaymentStatusPaid:
		return "order.paid"
	case models.PaymentStatusFailed:
		return "order.failed"
	case models.PaymentStatusRefunded:
		return "order.refunded"
	default:
		return "order.pending"
	}
}

// orderEventPayload builds the allow-listed projection of an order that is
// handed to the dispatch collaborator. Customer contact fields are masked;
// the collaborator applies its own filtering before third parties see it.
func orderEventPayload(order models.Order, status models.PaymentStatus) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]interface{}{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
		})
	}

	return map[string]interface{}{
		"order_id": order.ID,
		"status":   string(status),
		"total":    order.Total(),
		"items":    items,
		"customer": map[string]interface{}{
			"email": MaskEmail(order.CustomerEmail),
			"name":  order.CustomerName,
			"phone": MaskPhone(order.CustomerPhone),
		},
	}
}

// MaskEmail keeps the first character of the local part and the full domain.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskPhone keeps only the last four digits.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// RenderTemplate substitutes {{key}} placeholders by plain replacement.
// Unknown placeholders are left untouched.
func RenderTemplate(body string, vars map[string]string) string {
	for key, value := range vars {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	return body
}
