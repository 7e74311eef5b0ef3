package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem snapshots a cart line at submission. Later catalog edits never
// touch it.
type OrderItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     string    `gorm:"column:product_id;not null"`
	TierID        *string   `gorm:"column:tier_id"`
	Name          string    `gorm:"column:name;not null"`
	PackQuantity  int       `gorm:"column:pack_quantity;not null;default:1"`
	UnitPriceBaht int       `gorm:"column:unit_price_baht;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	LineTotalBaht int       `gorm:"column:line_total_baht;not null"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
