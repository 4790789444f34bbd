package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storeflow/internal/gateway"
	"storeflow/internal/models"
	"storeflow/internal/services"
)

// reconciler is the slice of the reconciliation pipeline the HTTP layer
// drives.
type reconciler interface {
	ProcessTransaction(ctx context.Context, transactionID string) error
	PollOrderStatus(ctx context.Context, orderID uint) (models.PaymentStatus, error)
}

type PaymentHandler struct {
	recon  reconciler
	cache  *services.RedisCache
	logger *zap.SugaredLogger
}

func NewPaymentHandler(recon reconciler, cache *services.RedisCache, logger *zap.SugaredLogger) *PaymentHandler {
	return &PaymentHandler{recon: recon, cache: cache, logger: logger}
}

// HandleGatewayNotification receives a gateway webhook delivery. Notifications
// without a usable transaction identifier are acknowledged and dropped:
// gateways send several notification shapes and only some carry one. A
// non-2xx answer makes the gateway redeliver, so it is reserved for
// pipeline-fatal failures.
func (h *PaymentHandler) HandleGatewayNotification(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON payload")
	}

	transactionID := extractTransactionID(payload)
	if transactionID == "" {
		h.logger.Infow("notification without transaction identifier, acknowledging",
			"action", stringField(payload, "action"), "type", stringField(payload, "type"))
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	if !verifyNotificationSignature(payload) {
		h.logger.Warnw("notification signature mismatch, dropping", "transaction_id", transactionID)
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	if err := h.recon.ProcessTransaction(c.Request().Context(), transactionID); err != nil {
		h.logger.Errorw("reconciliation failed", "transaction_id", transactionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// PollPaymentStatus answers a waiting client with the order's best-known
// canonical status. It never propagates internal errors as non-200; the
// client keeps polling until it sees a terminal status.
func (h *PaymentHandler) PollPaymentStatus(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]string{"status": string(models.PaymentStatusPending)})
	}

	ctx := c.Request().Context()
	cacheKey := fmt.Sprintf("order_status:%d", orderID)

	if h.cache != nil {
		var cached string
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil && cached == string(models.PaymentStatusPaid) {
			return c.JSON(http.StatusOK, map[string]string{"status": cached})
		}
	}

	status, err := h.recon.PollOrderStatus(ctx, uint(orderID))
	if err != nil {
		h.logger.Warnw("poll failed, returning pending", "order_id", orderID, "error", err)
		return c.JSON(http.StatusOK, map[string]string{"status": string(models.PaymentStatusPending)})
	}

	if status == models.PaymentStatusPaid && h.cache != nil {
		_ = h.cache.Set(ctx, cacheKey, string(status), time.Hour)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(status)})
}

// extractTransactionID pulls the gateway transaction identifier out of a
// notification body, checking data.id first, then the top-level id, then
// transaction_id. Numeric identifiers are rendered without an exponent.
func extractTransactionID(payload map[string]interface{}) string {
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if id := idField(data, "id"); id != "" {
			return id
		}
	}
	if id := idField(payload, "id"); id != "" {
		return id
	}
	return idField(payload, "transaction_id")
}

func idField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// verifyNotificationSignature checks the Midtrans signature_key when the
// notification carries one and a server key is configured. Payloads without
// signature fields (Mercado Pago) pass through untouched.
func verifyNotificationSignature(payload map[string]interface{}) bool {
	signature := stringField(payload, "signature_key")
	if signature == "" {
		return true
	}
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return true
	}
	return gateway.VerifyMidtransSignature(
		stringField(payload, "order_id"),
		stringField(payload, "status_code"),
		stringField(payload, "gross_amount"),
		serverKey,
		signature,
	)
}
