// Package dispatch holds the outbound collaborators the pipeline notifies:
// the merchant webhook dispatcher and the mail sender.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// WebhookDispatcher hands merchant-facing events to the internal dispatch
// collaborator, which applies its own allow-list filtering before anything
// reaches a third party.
type WebhookDispatcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewWebhookDispatcher() *WebhookDispatcher {
	url := os.Getenv("DISPATCH_BASE_URL")
	if url == "" {
		url = "http://dispatcher:4000"
	}
	return &WebhookDispatcher{
		baseURL: url,
		apiKey:  os.Getenv("DISPATCH_API_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL overrides the dispatcher host. Used in tests.
func (d *WebhookDispatcher) WithBaseURL(baseURL string) *WebhookDispatcher {
	d.baseURL = baseURL
	return d
}

// Dispatch posts one event scoped to the merchant owner. Each delivery
// carries a fresh id so consumers can deduplicate retried sends.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event string, ownerID uint, payload map[string]interface{}) error {
	body := map[string]interface{}{
		"id":       uuid.NewString(),
		"event":    event,
		"scope":    "client",
		"owner_id": ownerID,
		"payload":  payload,
	}
	return postJSON(ctx, d.client, d.baseURL+"/events", d.apiKey, body)
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
