package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is one purchased line item. ProductID may be zero on orders
// created before items carried product references; the checkout's single
// product is used as a fallback when granting access.
type OrderItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// Order represents a purchase intent. Once paid, later events must not
// silently demote the status. CustomerUserID, once set, is the authoritative
// link to the provisioned buyer account.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	CheckoutID       *uint         `gorm:"index" json:"checkout_id"`
	OwnerID          uint          `gorm:"index" json:"owner_id"`
	CustomerEmail    string        `gorm:"type:varchar(255);index" json:"customer_email"`
	CustomerName     string        `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone    string        `gorm:"type:varchar(50)" json:"customer_phone"`
	CustomerDocument string        `gorm:"type:varchar(50)" json:"customer_document"`
	Items            []OrderItem   `gorm:"serializer:json" json:"items"`
	Status           PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CustomerUserID   string        `gorm:"type:varchar(128)" json:"customer_user_id"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// Total sums the line item prices.
func (o Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Price
	}
	return total
}
