package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is a catalog entry keyed by a stable string id such as "ginger-tea"
// or a uuid. Price is the flat unit price in whole baht and
// only applies when the product has no active promotion tiers.
type Product struct {
	ID          string         `gorm:"column:id;type:text;primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	Category    string         `gorm:"column:category;not null;default:''"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	Image       string         `gorm:"column:image;not null;default:''"`
	Price       int            `gorm:"column:price;not null"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	SortOrder   int            `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
