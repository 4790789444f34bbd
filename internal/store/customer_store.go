package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storeflow/internal/models"
)

func (s *Store) CustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch customer by email: %w", err)
	}
	return &customer, nil
}

// SaveCustomerProfile records the local profile row for a provisioned
// account; re-provisioning the same email updates in place.
func (s *Store) SaveCustomerProfile(ctx context.Context, customer models.Customer) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "name", "phone", "updated_at"}),
	}).Create(&customer).Error
	if err != nil {
		return fmt.Errorf("failed to save customer profile: %w", err)
	}
	return nil
}
