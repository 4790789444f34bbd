package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storeflow/internal/models"
)

func (s *Store) GatewayByID(ctx context.Context, gatewayID uint) (*models.Gateway, error) {
	var gw models.Gateway
	err := s.db.WithContext(ctx).First(&gw, gatewayID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch gateway %d: %w", gatewayID, err)
	}
	return &gw, nil
}

// FirstActiveGateway returns the oldest active credential of the given type,
// or of any type when typ is empty.
func (s *Store) FirstActiveGateway(ctx context.Context, typ models.GatewayType) (*models.Gateway, error) {
	query := s.db.WithContext(ctx).Where("active = ?", true)
	if typ != "" {
		query = query.Where("type = ?", typ)
	}

	var gw models.Gateway
	err := query.Order("id asc").First(&gw).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch active gateway: %w", err)
	}
	return &gw, nil
}
