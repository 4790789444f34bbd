package handlers

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storeflow/internal/models"
)

type fakeReconciler struct {
	processCalls []string
	processErr   error
	pollStatus   models.PaymentStatus
	pollErr      error
	pollCalls    int
}

func (f *fakeReconciler) ProcessTransaction(_ context.Context, transactionID string) error {
	f.processCalls = append(f.processCalls, transactionID)
	return f.processErr
}

func (f *fakeReconciler) PollOrderStatus(context.Context, uint) (models.PaymentStatus, error) {
	f.pollCalls++
	if f.pollErr != nil {
		return "", f.pollErr
	}
	return f.pollStatus, nil
}

func postNotification(t *testing.T, h *PaymentHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.HandleGatewayNotification(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestGatewayNotificationTriggersReconciliation(t *testing.T) {
	recon := &fakeReconciler{}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := postNotification(t, h, `{"action":"payment.updated","data":{"id":"12345"}}`)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
	if len(recon.processCalls) != 1 || recon.processCalls[0] != "12345" {
		t.Errorf("process calls = %v; want [12345]", recon.processCalls)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || !body["success"] {
		t.Errorf("body = %s; want success true", rec.Body.String())
	}
}

func TestGatewayNotificationWithoutIDIsAcknowledged(t *testing.T) {
	recon := &fakeReconciler{}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := postNotification(t, h, `{"action":"test.created","type":"test"}`)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
	if len(recon.processCalls) != 0 {
		t.Errorf("process calls = %v; want none", recon.processCalls)
	}
}

func TestGatewayNotificationFatalErrorAnswers500(t *testing.T) {
	recon := &fakeReconciler{processErr: errors.New("no usable credential")}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := postNotification(t, h, `{"data":{"id":"12345"}}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500 so the gateway redelivers", rec.Code)
	}
}

func TestGatewayNotificationBadSignatureIsDropped(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "server-key")

	recon := &fakeReconciler{}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := postNotification(t, h, `{"transaction_id":"tx-1","order_id":"order-1","status_code":"200","gross_amount":"10000.00","signature_key":"bogus"}`)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
	if len(recon.processCalls) != 0 {
		t.Error("mismatched signature must not reach the pipeline")
	}
}

func TestGatewayNotificationValidSignatureIsProcessed(t *testing.T) {
	t.Setenv("MIDTRANS_SERVER_KEY", "server-key")

	sum := sha512.Sum512([]byte("order-1" + "200" + "10000.00" + "server-key"))
	signature := hex.EncodeToString(sum[:])

	recon := &fakeReconciler{}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	postNotification(t, h, `{"transaction_id":"tx-1","order_id":"order-1","status_code":"200","gross_amount":"10000.00","signature_key":"`+signature+`"}`)

	if len(recon.processCalls) != 1 || recon.processCalls[0] != "tx-1" {
		t.Errorf("process calls = %v; want [tx-1]", recon.processCalls)
	}
}

func TestExtractTransactionID(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{"nested data id", map[string]interface{}{"data": map[string]interface{}{"id": "abc"}}, "abc"},
		{"numeric nested id", map[string]interface{}{"data": map[string]interface{}{"id": float64(123456789)}}, "123456789"},
		{"top-level id", map[string]interface{}{"id": "top"}, "top"},
		{"transaction_id field", map[string]interface{}{"transaction_id": "tx-9"}, "tx-9"},
		{"data id wins over top-level", map[string]interface{}{"id": "top", "data": map[string]interface{}{"id": "nested"}}, "nested"},
		{"no identifier", map[string]interface{}{"action": "test"}, ""},
		{"non-string non-number id", map[string]interface{}{"id": true}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractTransactionID(tc.payload); got != tc.want {
				t.Errorf("extractTransactionID = %q; want %q", got, tc.want)
			}
		})
	}
}

func pollStatus(t *testing.T, h *PaymentHandler, orderID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID+"/payment-status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	if err := h.PollPaymentStatus(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestPollPaymentStatusReturnsReconciledStatus(t *testing.T) {
	recon := &fakeReconciler{pollStatus: models.PaymentStatusPaid}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := pollStatus(t, h, "10")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "paid" {
		t.Errorf("body = %s; want status paid", rec.Body.String())
	}
}

func TestPollPaymentStatusBadIDAnswersPending(t *testing.T) {
	recon := &fakeReconciler{pollStatus: models.PaymentStatusPaid}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := pollStatus(t, h, "not-a-number")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "pending" {
		t.Errorf("body = %s; want status pending", rec.Body.String())
	}
	if recon.pollCalls != 0 {
		t.Error("unparseable order id must not reach the pipeline")
	}
}

func TestPollPaymentStatusErrorDegradesToPending(t *testing.T) {
	recon := &fakeReconciler{pollErr: errors.New("order 10 not found")}
	h := NewPaymentHandler(recon, nil, zap.NewNop().Sugar())

	rec := pollStatus(t, h, "10")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["status"] != "pending" {
		t.Errorf("body = %s; want status pending", rec.Body.String())
	}
}
