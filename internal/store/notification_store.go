package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storeflow/internal/models"
)

// ErrNotificationsDisabled signals that the merchant explicitly turned off
// the notification for an event. Callers treat it as a no-op, not a failure.
var ErrNotificationsDisabled = errors.New("notifications disabled for event")

// TemplateForEvent resolves the merchant's template for a pipeline event.
// A missing template returns (nil, nil) and callers fall back to a default
// message; a disabled template returns ErrNotificationsDisabled.
func (s *Store) TemplateForEvent(ctx context.Context, ownerID uint, event string) (*models.MessageTemplate, error) {
	var tmpl models.MessageTemplate
	err := s.db.WithContext(ctx).Where("owner_id = ? AND event = ?", ownerID, event).First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch template for event %s: %w", event, err)
	}
	if !tmpl.Enabled {
		return nil, ErrNotificationsDisabled
	}
	return &tmpl, nil
}

// MailIntegrationFor returns the merchant's active mail sender, or
// (nil, nil) when none is configured.
func (s *Store) MailIntegrationFor(ctx context.Context, ownerID uint) (*models.MailIntegration, error) {
	var integration models.MailIntegration
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", ownerID, true).
		Order("id asc").
		First(&integration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch mail integration: %w", err)
	}
	return &integration, nil
}
