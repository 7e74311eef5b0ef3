package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/enums"
)

// Order is a submitted purchase. Amounts are whole baht.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Reference     string              `gorm:"column:reference;not null;uniqueIndex"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Phone         string              `gorm:"column:phone;not null"`
	Email         *string             `gorm:"column:email"`
	AddressLine   string              `gorm:"column:address_line;not null"`
	District      string              `gorm:"column:district;not null;default:''"`
	Province      string              `gorm:"column:province;not null"`
	PostalCode    string              `gorm:"column:postal_code;not null"`
	Note          *string             `gorm:"column:note"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null"`
	SubtotalBaht  int                 `gorm:"column:subtotal_baht;not null"`
	ShippingBaht  int                 `gorm:"column:shipping_baht;not null"`
	TotalBaht     int                 `gorm:"column:total_baht;not null"`
	CartSessionID string              `gorm:"column:cart_session_id;not null;default:''"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
