package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storeflow/internal/models"
)

// PaymentByTransactionID resolves the payment recorded for a gateway
// transaction.
func (s *Store) PaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment for transaction %s: %w", transactionID, err)
	}
	return &payment, nil
}

// LatestPaymentForOrder returns the most recent payment attempt for an
// order, by creation time.
func (s *Store) LatestPaymentForOrder(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest payment for order %d: %w", orderID, err)
	}
	return &payment, nil
}

// SetPaymentStatus patches the payment's canonical status and attaches the
// raw gateway response for audit.
func (s *Store) SetPaymentStatus(ctx context.Context, paymentID uint, status models.PaymentStatus, raw json.RawMessage) error {
	updates := map[string]interface{}{"status": status}
	if len(raw) > 0 {
		updates["raw_response"] = raw
	}
	if err := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", paymentID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update payment %d: %w", paymentID, err)
	}
	return nil
}

// StalePendingPayments lists payments still pending whose last update is
// older than the cutoff. Used by the worker's recheck task.
func (s *Store) StalePendingPayments(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.PaymentStatusPending, olderThan).
		Order("updated_at asc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending payments: %w", err)
	}
	return payments, nil
}
