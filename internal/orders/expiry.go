package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
)

// ExpiryRepository finds and expires orders whose payment never arrived.
type ExpiryRepository struct {
	db *gorm.DB
}

func NewExpiryRepository(db *gorm.DB) *ExpiryRepository {
	return &ExpiryRepository{db: db}
}

// FindUnpaidBefore returns orders still waiting for a transfer that were
// placed before cutoff, oldest first.
func (r *ExpiryRepository) FindUnpaidBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	query := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPendingPayment, cutoff).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	return rows, err
}

// ExpireTx flips a single order to expired if it is still pending payment.
// It reports false when a payment landed first.
func (r *ExpiryRepository) ExpireTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPendingPayment).
		Updates(map[string]any{
			"status":     enums.OrderStatusExpired,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
