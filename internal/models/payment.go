package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the canonical status vocabulary shared by payments and
// orders. Gateway-native statuses are translated into one of these four
// values before any decision is made.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment represents one gateway transaction attempt for an order.
// TransactionID maps to at most one transaction at the gateway. Rows are
// created by checkout, mutated only by the reconciliation pipeline and
// never deleted.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderID       uint            `gorm:"index" json:"order_id"`
	GatewayID     *uint           `gorm:"index" json:"gateway_id"`
	GatewayType   GatewayType     `gorm:"type:varchar(50)" json:"gateway_type"`
	TransactionID string          `gorm:"type:varchar(100);uniqueIndex" json:"transaction_id"`
	Status        PaymentStatus   `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RawResponse   json.RawMessage `gorm:"type:jsonb" json:"raw_response"`

	// Relationships
	Order   Order    `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Gateway *Gateway `gorm:"foreignKey:GatewayID" json:"gateway,omitempty"`
}
