package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storeflow/internal/models"
)

// statusTimeout bounds every call to a gateway's authoritative-status
// endpoint so a slow upstream cannot stall a handler.
const statusTimeout = 10 * time.Second

// StatusResult is the authoritative answer from a gateway for one
// transaction: the native status plus the raw response body kept for audit.
type StatusResult struct {
	NativeStatus string
	Raw          json.RawMessage
}

// StatusClient queries a payment gateway for the authoritative status of a
// transaction.
type StatusClient interface {
	TransactionStatus(ctx context.Context, transactionID string) (*StatusResult, error)
}

// ClientFor builds a status client for the given credential.
func ClientFor(gw models.Gateway) (StatusClient, error) {
	switch gw.Type {
	case models.GatewayTypeMercadoPago:
		return NewMercadoPagoClient(gw.AccessToken), nil
	case models.GatewayTypeMidtrans:
		return NewMidtransClient(gw.AccessToken, gw.Live), nil
	default:
		return nil, fmt.Errorf("unsupported gateway type %q", gw.Type)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: statusTimeout}
}
