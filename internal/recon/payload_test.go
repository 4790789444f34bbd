package recon

import (
	"testing"

	"storeflow/internal/models"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"buyer@example.com", "b***@example.com"},
		{"a@b.co", "a***@b.co"},
		{"not-an-email", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.input); got != tt.expected {
			t.Errorf("MaskEmail(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+5511998765432", "**********5432"},
		{"1234", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskPhone(tt.input); got != tt.expected {
			t.Errorf("MaskPhone(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	body := "Olá {{customer_name}}, pedido {{order_id}} ok. {{unknown}} fica."
	got := RenderTemplate(body, map[string]string{
		"customer_name": "Maria",
		"order_id":      "77",
	})
	want := "Olá Maria, pedido 77 ok. {{unknown}} fica."
	if got != want {
		t.Errorf("RenderTemplate = %q; want %q", got, want)
	}
}

func TestEventForStatus(t *testing.T) {
	tests := []struct {
		status models.PaymentStatus
		event  string
	}{
		{models.PaymentStatusPaid, "order.paid"},
		{models.PaymentStatusFailed, "order.failed"},
		{models.PaymentStatusRefunded, "order.refunded"},
		{models.PaymentStatusPending, "order.pending"},
	}
	for _, tt := range tests {
		if got := EventForStatus(tt.status); got != tt.event {
			t.Errorf("EventForStatus(%q) = %q; want %q", tt.status, got, tt.event)
		}
	}
}

func TestOrderEventPayloadMasksCustomer(t *testing.T) {
	order := models.Order{
		CustomerEmail: "buyer@example.com",
		CustomerName:  "Maria",
		CustomerPhone: "+5511998765432",
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Curso A", Price: 100},
			{ProductID: 2, Name: "Curso B", Price: 50},
		},
	}
	order.ID = 9

	payload := orderEventPayload(order, models.PaymentStatusPaid)

	customer, ok := payload["customer"].(map[string]interface{})
	if !ok {
		t.Fatal("payload missing customer projection")
	}
	if customer["email"] != "b***@example.com" {
		t.Errorf("customer email not masked: %v", customer["email"])
	}
	if payload["total"] != 150.0 {
		t.Errorf("total = %v; want 150", payload["total"])
	}
	items, ok := payload["items"].([]map[string]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 projected items, got %v", payload["items"])
	}
	if _, present := payload["document"]; present {
		t.Error("document must not leak into the dispatch payload")
	}
}
