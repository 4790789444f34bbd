package models

import (
	"time"

	"gorm.io/gorm"
)

type AccessGrantStatus string

const (
	AccessGrantStatusActive  AccessGrantStatus = "active"
	AccessGrantStatusRevoked AccessGrantStatus = "revoked"
)

// AccessGrant links a buyer account to a piece of content or a product.
// Exactly one of ContentID/ProductID is set per row. The composite unique
// indexes make granting idempotent: re-granting updates the existing row,
// it never creates a duplicate.
type AccessGrant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string            `gorm:"type:varchar(128);not null;uniqueIndex:idx_grant_user_content;uniqueIndex:idx_grant_user_product" json:"user_id"`
	ContentID *uint             `gorm:"uniqueIndex:idx_grant_user_content" json:"content_id"`
	ProductID *uint             `gorm:"uniqueIndex:idx_grant_user_product" json:"product_id"`
	Status    AccessGrantStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	GrantedAt time.Time         `json:"granted_at"`
}
