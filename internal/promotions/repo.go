package promotions

import (
	"context"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
)

// Repository reads promotion tiers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActive returns every active tier ordered by sort_order.
func (r *Repository) ListActive(ctx context.Context) ([]models.PromotionTier, error) {
	var rows []models.PromotionTier
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func toTier(row models.PromotionTier) Tier {
	return Tier{
		ID:           row.ID,
		ProductID:    row.ProductID,
		Quantity:     row.Quantity,
		Unit:         row.Unit,
		Price:        row.Price,
		NormalPrice:  row.NormalPrice,
		IsBestSeller: row.IsBestSeller,
		SortOrder:    row.SortOrder,
		IsActive:     row.IsActive,
	}
}
