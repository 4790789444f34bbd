package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ReconciliationLog is the append-only audit record written by every
// decision and side-effect attempt in the pipeline. It exists for forensics
// and debugging; nothing reads it to drive control flow.
type ReconciliationLog struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Event         string          `gorm:"type:varchar(100);index" json:"event"`
	TransactionID string          `gorm:"type:varchar(100);index" json:"transaction_id"`
	OrderID       uint            `gorm:"index" json:"order_id"`
	Level         string          `gorm:"type:varchar(20)" json:"level"`
	Metadata      json.RawMessage `gorm:"type:jsonb" json:"metadata"`
}
