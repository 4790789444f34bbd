package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storeflow/internal/models"
)

func (s *Store) OrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return &order, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, orderID uint, status models.PaymentStatus) error {
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update order %d: %w", orderID, err)
	}
	return nil
}

// LinkOrderCustomer persists the resolved buyer account onto the order so a
// concurrent or later pass observes the linkage.
func (s *Store) LinkOrderCustomer(ctx context.Context, orderID uint, userID string) error {
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("customer_user_id", userID).Error; err != nil {
		return fmt.Errorf("failed to link customer to order %d: %w", orderID, err)
	}
	return nil
}
