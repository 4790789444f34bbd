package recon

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"storeflow/internal/gateway"
	"storeflow/internal/models"
	"storeflow/internal/store"
)

const (
	defaultPaidSubject = "Compra confirmada"
	defaultPaidBody    = "<p>Olá {{customer_name}},</p><p>Seu pagamento do pedido #{{order_id}} foi confirmado. Seu acesso já está liberado.</p>"
)

// Reconciler runs the single-pass reconciliation pipeline for one observed
// gateway event. Each side-effect step fails in isolation: it is audited and
// the pipeline moves on, because the triggering gateway retries the whole
// delivery on a non-2xx and a blanket abort would re-run steps that already
// succeeded.
type Reconciler struct {
	store      RecordStore
	clients    ClientFactory
	dispatcher EventDispatcher
	mailer     MailSender
	accounts   AccountProvisioner
	logger     *zap.SugaredLogger
}

func New(st RecordStore, clients ClientFactory, dispatcher EventDispatcher, mailer MailSender, accounts AccountProvisioner, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		store:      st,
		clients:    clients,
		dispatcher: dispatcher,
		mailer:     mailer,
		accounts:   accounts,
		logger:     logger,
	}
}

// ProcessTransaction is the full webhook pipeline for one gateway
// transaction: resolve context, query the gateway's authoritative status,
// decide, and apply. It returns an error only for pipeline-fatal conditions
// (no usable credential, or the authoritative status query failed) so the
// caller answers non-2xx and the gateway redelivers later.
func (r *Reconciler) ProcessTransaction(ctx context.Context, transactionID string) error {
	payment, err := r.store.PaymentByTransactionID(ctx, transactionID)
	if err != nil {
		return err
	}
	if payment == nil {
		r.logger.Infow("no payment recorded for transaction, acknowledging", "transaction_id", transactionID)
		r.audit(ctx, "reconcile.unknown_transaction", "info", transactionID, 0, nil)
		return nil
	}

	order, err := r.store.OrderByID(ctx, payment.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		r.logger.Warnw("payment references missing order", "transaction_id", transactionID, "order_id", payment.OrderID)
		r.audit(ctx, "reconcile.orphan_payment", "warn", transactionID, payment.OrderID, nil)
		return nil
	}

	gw, err := r.resolveGateway(ctx, payment)
	if err != nil {
		r.audit(ctx, "reconcile.no_credential", "error", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		return err
	}

	client, err := r.clients(*gw)
	if err != nil {
		r.audit(ctx, "reconcile.no_credential", "error", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		return err
	}

	result, err := client.TransactionStatus(ctx, transactionID)
	if err != nil {
		r.audit(ctx, "reconcile.status_query_failed", "error", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("authoritative status query failed for %s: %w", transactionID, err)
	}

	newStatus := gateway.Translate(result.NativeStatus)
	decision := Decide(*payment, *order, newStatus)

	r.audit(ctx, "reconcile.decision", "info", transactionID, order.ID, map[string]interface{}{
		"native_status":          result.NativeStatus,
		"new_status":             newStatus,
		"payment_status":         payment.Status,
		"order_status":           order.Status,
		"update_needed":          decision.UpdateNeeded,
		"fulfillment_authorized": decision.FulfillmentAuthorized,
	})

	if !decision.UpdateNeeded && !decision.FulfillmentAuthorized {
		return nil
	}

	r.apply(ctx, payment, order, newStatus, result, decision)
	return nil
}

// PollOrderStatus re-derives the order's canonical status on demand for a
// waiting client. Already-paid orders short-circuit without touching the
// gateway. On a transition observed as pending to paid, the webhook
// pipeline is replayed synchronously once, so the client does not have to
// wait for gateway-side webhook delivery. Internal failures degrade to the
// best-known stored status; this path never errors out to its caller.
func (r *Reconciler) PollOrderStatus(ctx context.Context, orderID uint) (models.PaymentStatus, error) {
	order, err := r.store.OrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", fmt.Errorf("order %d not found", orderID)
	}

	if order.Status == models.PaymentStatusPaid {
		return models.PaymentStatusPaid, nil
	}

	payment, err := r.store.LatestPaymentForOrder(ctx, orderID)
	if err != nil || payment == nil {
		return order.Status, nil
	}

	gw, err := r.resolveGateway(ctx, payment)
	if err != nil {
		r.logger.Warnw("poll could not resolve credential", "order_id", orderID, "error", err)
		return order.Status, nil
	}
	client, err := r.clients(*gw)
	if err != nil {
		r.logger.Warnw("poll could not build gateway client", "order_id", orderID, "error", err)
		return order.Status, nil
	}

	result, err := client.TransactionStatus(ctx, payment.TransactionID)
	if err != nil {
		r.logger.Warnw("poll status query failed", "order_id", orderID, "transaction_id", payment.TransactionID, "error", err)
		return order.Status, nil
	}

	newStatus := gateway.Translate(result.NativeStatus)

	if payment.Status == models.PaymentStatusPending && newStatus == models.PaymentStatusPaid {
		r.audit(ctx, "poll.replay", "info", payment.TransactionID, orderID, map[string]interface{}{"native_status": result.NativeStatus})
		if err := r.ProcessTransaction(ctx, payment.TransactionID); err != nil {
			r.logger.Errorw("poll-triggered replay failed", "transaction_id", payment.TransactionID, "error", err)
			return order.Status, nil
		}
	}

	return newStatus, nil
}

// resolveGateway selects the credential for a payment: its recorded gateway
// when that still exists and is active, otherwise the first active
// credential of the payment's gateway type.
func (r *Reconciler) resolveGateway(ctx context.Context, payment *models.Payment) (*models.Gateway, error) {
	if payment.GatewayID != nil {
		gw, err := r.store.GatewayByID(ctx, *payment.GatewayID)
		if err != nil {
			return nil, err
		}
		if gw != nil && gw.Active {
			return gw, nil
		}
	}

	gw, err := r.store.FirstActiveGateway(ctx, payment.GatewayType)
	if err != nil {
		return nil, err
	}
	if gw == nil {
		return nil, fmt.Errorf("no usable gateway credential for payment %d", payment.ID)
	}
	return gw, nil
}

// apply executes the side-effect chain. Step order is fixed; persistence
// always runs, the fulfillment steps only when authorized.
func (r *Reconciler) apply(ctx context.Context, payment *models.Payment, order *models.Order, newStatus models.PaymentStatus, result *gateway.StatusResult, decision Decision) {
	// 1. Persist status on payment and order.
	if err := r.store.SetPaymentStatus(ctx, payment.ID, newStatus, result.Raw); err != nil {
		r.logger.Errorw("failed to persist payment status", "payment_id", payment.ID, "error", err)
		r.audit(ctx, "persist.payment_failed", "error", payment.TransactionID, order.ID, map[string]interface{}{"error": err.Error()})
	}
	if err := r.store.SetOrderStatus(ctx, order.ID, newStatus); err != nil {
		r.logger.Errorw("failed to persist order status", "order_id", order.ID, "error", err)
		r.audit(ctx, "persist.order_failed", "error", payment.TransactionID, order.ID, map[string]interface{}{"error": err.Error()})
	}

	// 2. Merchant webhook dispatch.
	event := EventForStatus(newStatus)
	if err := r.dispatcher.Dispatch(ctx, event, order.OwnerID, orderEventPayload(*order, newStatus)); err != nil {
		r.logger.Warnw("merchant webhook dispatch failed", "event", event, "order_id", order.ID, "error", err)
		r.audit(ctx, "dispatch.failed", "warn", payment.TransactionID, order.ID, map[string]interface{}{"event": event, "error": err.Error()})
	} else {
		r.audit(ctx, "dispatch.sent", "info", payment.TransactionID, order.ID, map[string]interface{}{"event": event})
	}

	if !decision.FulfillmentAuthorized {
		return
	}

	// 3. Confirmation email.
	r.sendConfirmationEmail(ctx, payment.TransactionID, order)

	// 4. Resolve or provision the buyer account.
	if order.CustomerUserID == "" {
		userID, err := r.accounts.EnsureAccount(ctx, order.CustomerEmail, order.CustomerName, order.CustomerPhone)
		if err != nil {
			r.logger.Errorw("account provisioning failed", "order_id", order.ID, "error", err)
			r.audit(ctx, "fulfill.account_failed", "error", payment.TransactionID, order.ID, map[string]interface{}{"error": err.Error()})
		} else {
			if err := r.store.LinkOrderCustomer(ctx, order.ID, userID); err != nil {
				r.logger.Errorw("failed to link account to order", "order_id", order.ID, "error", err)
				r.audit(ctx, "fulfill.link_failed", "error", payment.TransactionID, order.ID, map[string]interface{}{"error": err.Error()})
			}
			order.CustomerUserID = userID
			r.audit(ctx, "fulfill.account_resolved", "info", payment.TransactionID, order.ID, map[string]interface{}{"user_id": userID})
		}
	}

	// 5. Grant content access. Needs an account; if provisioning failed this
	// pass, a later event retries through the linkage clause of Decide.
	if order.CustomerUserID != "" {
		r.grantAccess(ctx, payment.TransactionID, order)
	}
}

func (r *Reconciler) sendConfirmationEmail(ctx context.Context, transactionID string, order *models.Order) {
	integration, err := r.store.MailIntegrationFor(ctx, order.OwnerID)
	if err != nil {
		r.logger.Warnw("failed to resolve mail integration", "order_id", order.ID, "error", err)
		r.audit(ctx, "fulfill.email_failed", "warn", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		return
	}
	if integration == nil {
		r.audit(ctx, "fulfill.email_skipped", "info", transactionID, order.ID, map[string]interface{}{"reason": "no mail integration"})
		return
	}

	subject := defaultPaidSubject
	body := defaultPaidBody
	tmpl, err := r.store.TemplateForEvent(ctx, order.OwnerID, EventForStatus(models.PaymentStatusPaid))
	if err != nil {
		if errors.Is(err, store.ErrNotificationsDisabled) {
			r.audit(ctx, "fulfill.email_skipped", "info", transactionID, order.ID, map[string]interface{}{"reason": "notifications disabled"})
			return
		}
		r.logger.Warnw("template lookup failed, using default message", "order_id", order.ID, "error", err)
	} else if tmpl != nil {
		subject = tmpl.Subject
		body = tmpl.Body
	}

	itemNames := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		itemNames = append(itemNames, item.Name)
	}
	vars := map[string]string{
		"customer_name":  order.CustomerName,
		"customer_email": order.CustomerEmail,
		"order_id":       strconv.FormatUint(uint64(order.ID), 10),
		"order_total":    strconv.FormatFloat(order.Total(), 'f', 2, 64),
		"items":          strings.Join(itemNames, ", "),
	}

	subject = RenderTemplate(subject, vars)
	html := RenderTemplate(body, vars)

	if err := r.mailer.Send(ctx, *integration, order.CustomerEmail, subject, html); err != nil {
		r.logger.Warnw("confirmation email failed", "order_id", order.ID, "error", err)
		r.audit(ctx, "fulfill.email_failed", "warn", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		return
	}
	r.audit(ctx, "fulfill.email_sent", "info", transactionID, order.ID, nil)
}

// grantAccess creates one grant per purchased product and one per content
// row of each product. Per-grant failures are audited individually and do
// not block the remaining grants.
func (r *Reconciler) grantAccess(ctx context.Context, transactionID string, order *models.Order) {
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ProductID != 0 {
			productIDs = append(productIDs, item.ProductID)
		}
	}

	// Legacy orders carry no product references on their items; fall back to
	// the single product tied to the order's checkout.
	if len(productIDs) == 0 && order.CheckoutID != nil {
		productID, err := r.store.CheckoutProduct(ctx, *order.CheckoutID)
		if err != nil {
			r.logger.Warnw("checkout fallback lookup failed", "order_id", order.ID, "error", err)
			r.audit(ctx, "fulfill.grant_failed", "warn", transactionID, order.ID, map[string]interface{}{"error": err.Error()})
		} else if productID != 0 {
			productIDs = append(productIDs, productID)
		}
	}

	if len(productIDs) == 0 {
		r.audit(ctx, "fulfill.no_products", "warn", transactionID, order.ID, nil)
		return
	}

	for _, productID := range productIDs {
		if err := r.store.UpsertProductGrant(ctx, order.CustomerUserID, productID); err != nil {
			r.logger.Warnw("product grant failed", "order_id", order.ID, "product_id", productID, "error", err)
			r.audit(ctx, "fulfill.grant_failed", "warn", transactionID, order.ID, map[string]interface{}{"product_id": productID, "error": err.Error()})
		}

		contents, err := r.store.ContentsForProduct(ctx, productID)
		if err != nil {
			r.logger.Warnw("content lookup failed", "order_id", order.ID, "product_id", productID, "error", err)
			r.audit(ctx, "fulfill.grant_failed", "warn", transactionID, order.ID, map[string]interface{}{"product_id": productID, "error": err.Error()})
			continue
		}

		for _, content := range contents {
			if err := r.store.UpsertContentGrant(ctx, order.CustomerUserID, content.ID); err != nil {
				r.logger.Warnw("content grant failed", "order_id", order.ID, "content_id", content.ID, "error", err)
				r.audit(ctx, "fulfill.grant_failed", "warn", transactionID, order.ID, map[string]interface{}{"content_id": content.ID, "error": err.Error()})
			}
		}
	}

	r.audit(ctx, "fulfill.grants_done", "info", transactionID, order.ID, map[string]interface{}{"products": len(productIDs)})
}
