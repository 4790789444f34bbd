package store

import (
	"context"
	"fmt"

	"storeflow/internal/models"
)

// AppendAudit writes one reconciliation log row. Append-only; rows are never
// updated or consulted for control flow.
func (s *Store) AppendAudit(ctx context.Context, entry models.ReconciliationLog) error {
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append reconciliation log: %w", err)
	}
	return nil
}

// RecentAudit lists reconciliation log rows newest first, for the admin
// forensics endpoint.
func (s *Store) RecentAudit(ctx context.Context, limit, offset int) ([]models.ReconciliationLog, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ReconciliationLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reconciliation logs: %w", err)
	}

	var logs []models.ReconciliationLog
	err := s.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reconciliation logs: %w", err)
	}
	return logs, total, nil
}
