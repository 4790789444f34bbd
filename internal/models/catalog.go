package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductContent is one deliverable piece of content attached to a product
// (a course module, a download, a members-area section). Paid orders get one
// access grant per content row of every purchased product.
type ProductContent struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ProductID uint   `gorm:"index" json:"product_id"`
	Title     string `gorm:"type:varchar(255)" json:"title"`
	Kind      string `gorm:"type:varchar(50)" json:"kind"`
}

// Checkout links a checkout page to the single product it sells. Orders from
// before line items carried product references resolve their product
// through this record.
type Checkout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID   uint   `gorm:"index" json:"owner_id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	Slug      string `gorm:"type:varchar(255);uniqueIndex" json:"slug"`
}
