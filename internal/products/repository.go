package product

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/pagination"
)

// Repository reads catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads an active product.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns one page of active products ordered by (sort_order, id).
// It fetches limit rows as given; callers pass a buffered limit to detect
// the next page.
func (r *Repository) ListActive(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if cursor != nil {
		query = query.Where("(sort_order > ?) OR (sort_order = ? AND id > ?)", cursor.Position, cursor.Position, cursor.ID)
	}

	var rows []models.Product
	err := query.
		Order("sort_order ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
