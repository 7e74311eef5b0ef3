package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PromotionTier is a fixed-quantity package of a product sold at a bundle price.
// NormalPrice is the reference price used for the discount badge.
type PromotionTier struct {
	ID           string    `gorm:"column:id;type:text;primaryKey"`
	ProductID    string    `gorm:"column:product_id;type:text;not null;index"`
	Quantity     int       `gorm:"column:quantity;not null"`
	Unit         string    `gorm:"column:unit;not null"`
	Price        int       `gorm:"column:price;not null"`
	NormalPrice  int       `gorm:"column:normal_price;not null"`
	IsBestSeller bool      `gorm:"column:is_best_seller;not null;default:false"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PromotionTier) TableName() string {
	return "promotion_tiers"
}

func (t *PromotionTier) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
