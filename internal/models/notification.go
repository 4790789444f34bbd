package models

import (
	"time"

	"gorm.io/gorm"
)

// MessageTemplate is a merchant-configured email template for a pipeline
// event (e.g. "order.paid"). Body placeholders use {{name}} syntax and are
// substituted by plain key replacement. A disabled template means the
// merchant opted out of that notification entirely.
type MessageTemplate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID uint   `gorm:"index" json:"owner_id"`
	Event   string `gorm:"type:varchar(100);index" json:"event"`
	Subject string `gorm:"type:varchar(255)" json:"subject"`
	Body    string `gorm:"type:text" json:"body"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

// MailIntegration is the merchant's configured mail-sending collaborator.
type MailIntegration struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID   uint   `gorm:"index" json:"owner_id"`
	BaseURL   string `gorm:"type:varchar(255)" json:"base_url"`
	APIKey    string `gorm:"type:varchar(255)" json:"-"`
	FromEmail string `gorm:"type:varchar(255)" json:"from_email"`
	Active    bool   `gorm:"default:true" json:"active"`
}
