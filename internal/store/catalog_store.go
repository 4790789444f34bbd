package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storeflow/internal/models"
)

func (s *Store) ContentsForProduct(ctx context.Context, productID uint) ([]models.ProductContent, error) {
	var contents []models.ProductContent
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("id asc").Find(&contents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contents for product %d: %w", productID, err)
	}
	return contents, nil
}

// CheckoutProduct resolves the single product sold by a checkout page.
func (s *Store) CheckoutProduct(ctx context.Context, checkoutID uint) (uint, error) {
	var checkout models.Checkout
	err := s.db.WithContext(ctx).First(&checkout, checkoutID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch checkout %d: %w", checkoutID, err)
	}
	return checkout.ProductID, nil
}
