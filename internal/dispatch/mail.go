package dispatch

import (
	"context"
	"net/http"
	"time"

	"storeflow/internal/models"
)

// Mailer sends a single HTML email through the merchant's configured mail
// collaborator.
type Mailer struct {
	client *http.Client
}

func NewMailer() *Mailer {
	return &Mailer{client: &http.Client{Timeout: 10 * time.Second}}
}

func (m *Mailer) Send(ctx context.Context, integration models.MailIntegration, to, subject, html string) error {
	payload := map[string]string{
		"to":      to,
		"subject": subject,
		"html":    html,
	}
	return postJSON(ctx, m.client, integration.BaseURL+"/send", integration.APIKey, payload)
}
