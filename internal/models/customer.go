package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is the local profile row for a provisioned buyer account. UserID
// is the identifier in the account registry. Used as the fallback lookup
// when the registry reports an email conflict but cannot resolve the user.
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID string `gorm:"type:varchar(128);uniqueIndex" json:"user_id"`
	Email  string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Name   string `gorm:"type:varchar(255)" json:"name"`
	Phone  string `gorm:"type:varchar(50)" json:"phone"`
}
