package recon

import (
	"context"
	"encoding/json"

	"storeflow/internal/gateway"
	"storeflow/internal/models"
)

// RecordStore is the slice of the record-store client the pipeline reads and
// conditionally mutates. The store is the sole writer-of-record; the
// pipeline never assumes exclusive access to it.
type RecordStore interface {
	PaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	LatestPaymentForOrder(ctx context.Context, orderID uint) (*models.Payment, error)
	SetPaymentStatus(ctx context.Context, paymentID uint, status models.PaymentStatus, raw json.RawMessage) error

	OrderByID(ctx context.Context, orderID uint) (*models.Order, error)
	SetOrderStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error
	LinkOrderCustomer(ctx context.Context, orderID uint, userID string) error

	GatewayByID(ctx context.Context, gatewayID uint) (*models.Gateway, error)
	FirstActiveGateway(ctx context.Context, typ models.GatewayType) (*models.Gateway, error)

	ContentsForProduct(ctx context.Context, productID uint) ([]models.ProductContent, error)
	CheckoutProduct(ctx context.Context, checkoutID uint) (uint, error)

	UpsertContentGrant(ctx context.Context, userID string, contentID uint) error
	UpsertProductGrant(ctx context.Context, userID string, productID uint) error

	TemplateForEvent(ctx context.Context, ownerID uint, event string) (*models.MessageTemplate, error)
	MailIntegrationFor(ctx context.Context, ownerID uint) (*models.MailIntegration, error)

	AppendAudit(ctx context.Context, entry models.ReconciliationLog) error
}

// AccountProvisioner resolves or creates the buyer account for an email.
type AccountProvisioner interface {
	EnsureAccount(ctx context.Context, email, name, phone string) (string, error)
}

// EventDispatcher hands merchant-scoped events to the webhook collaborator.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event string, ownerID uint, payload map[string]interface{}) error
}

// MailSender delivers one HTML email through a mail integration.
type MailSender interface {
	Send(ctx context.Context, integration models.MailIntegration, to, subject, html string) error
}

// ClientFactory builds a gateway status client for a resolved credential.
type ClientFactory func(gw models.Gateway) (gateway.StatusClient, error)
