package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/herbalstore/storefront-backend/pkg/enums"
)

// OrderCreatedEvent is emitted once an order and its item snapshot commit.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Reference     string              `json:"reference"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.OrderStatus   `json:"status"`
	TotalBaht     int                 `json:"total_baht"`
	ItemCount     int                 `json:"item_count"`
	Province      string              `json:"province"`
}

// OrderExpiredEvent is emitted when an unpaid order passes its payment window.
type OrderExpiredEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	Reference     string              `json:"reference"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	TotalBaht     int                 `json:"total_baht"`
	ExpiredAt     time.Time           `json:"expired_at"`
}
