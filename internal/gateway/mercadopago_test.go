package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMercadoPagoTransactionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v1/payments/12345" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12345,"status":"approved","transaction_amount":150.0}`))
	}))
	defer server.Close()

	client := NewMercadoPagoClient("test-token").WithBaseURL(server.URL)

	result, err := client.TransactionStatus(context.Background(), "12345")
	if err != nil {
		t.Fatalf("TransactionStatus returned error: %v", err)
	}
	if result.NativeStatus != "approved" {
		t.Errorf("NativeStatus = %q; want %q", result.NativeStatus, "approved")
	}
	if len(result.Raw) == 0 {
		t.Error("expected raw response body to be kept")
	}
}

func TestMercadoPagoTransactionStatusUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"payment not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewMercadoPagoClient("test-token").WithBaseURL(server.URL)

	if _, err := client.TransactionStatus(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for upstream 404")
	}
}
