package models

import (
	"time"

	"gorm.io/gorm"
)

type GatewayType string

const (
	GatewayTypeMercadoPago GatewayType = "mercadopago"
	GatewayTypeMidtrans    GatewayType = "midtrans"
)

// Gateway holds the credential used to query a payment gateway for
// authoritative transaction status. A payment normally references its
// gateway directly; older payment rows without the link fall back to the
// first active credential of their gateway type.
type Gateway struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OwnerID     uint        `gorm:"index" json:"owner_id"`
	Type        GatewayType `gorm:"type:varchar(50);not null;index" json:"type"`
	Name        string      `gorm:"type:varchar(255)" json:"name"`
	AccessToken string      `gorm:"type:varchar(255)" json:"-"`
	Live        bool        `gorm:"default:false" json:"live"`
	Active      bool        `gorm:"default:true;index" json:"active"`
}
