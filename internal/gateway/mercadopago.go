package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const mercadoPagoBaseURL = "https://api.mercadopago.com"

// MercadoPagoClient queries the Mercado Pago payments API with a
// bearer-authenticated GET per transaction.
type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewMercadoPagoClient(accessToken string) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:     mercadoPagoBaseURL,
		accessToken: accessToken,
		client:      newHTTPClient(),
	}
}

// WithBaseURL overrides the API host. Used in tests.
func (c *MercadoPagoClient) WithBaseURL(baseURL string) *MercadoPagoClient {
	c.baseURL = baseURL
	return c
}

func (c *MercadoPagoClient) TransactionStatus(ctx context.Context, transactionID string) (*StatusResult, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment %s: %w", transactionID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payment query failed with status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &StatusResult{NativeStatus: payload.Status, Raw: body}, nil
}
