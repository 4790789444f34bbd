package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"storeflow/internal/models"
)

// UpsertContentGrant grants a buyer account access to one content item.
// Conflicts on (user_id, content_id) update the existing row, so duplicate
// executions cannot create duplicate grants.
func (s *Store) UpsertContentGrant(ctx context.Context, userID string, contentID uint) error {
	grant := models.AccessGrant{
		UserID:    userID,
		ContentID: &contentID,
		Status:    models.AccessGrantStatusActive,
		GrantedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "granted_at", "updated_at"}),
	}).Create(&grant).Error
	if err != nil {
		return fmt.Errorf("failed to grant content %d to user %s: %w", contentID, userID, err)
	}
	return nil
}

// UpsertProductGrant grants a buyer account access to a product, keyed
// uniquely on (user_id, product_id).
func (s *Store) UpsertProductGrant(ctx context.Context, userID string, productID uint) error {
	grant := models.AccessGrant{
		UserID:    userID,
		ProductID: &productID,
		Status:    models.AccessGrantStatusActive,
		GrantedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "granted_at", "updated_at"}),
	}).Create(&grant).Error
	if err != nil {
		return fmt.Errorf("failed to grant product %d to user %s: %w", productID, userID, err)
	}
	return nil
}
