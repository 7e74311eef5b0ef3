package orders

import (
	"time"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
)

// ItemView is one snapshot line of an order.
type ItemView struct {
	ProductID     string  `json:"productId"`
	TierID        *string `json:"tierId,omitempty"`
	Name          string  `json:"name"`
	PackQuantity  int     `json:"packQuantity"`
	UnitPriceBaht int     `json:"unitPrice"`
	Quantity      int     `json:"quantity"`
	LineTotalBaht int     `json:"lineTotal"`
}

// ShippingAddress is where the parcel goes.
type ShippingAddress struct {
	AddressLine string `json:"addressLine"`
	District    string `json:"district,omitempty"`
	Province    string `json:"province"`
	PostalCode  string `json:"postalCode"`
}

// OrderView is the order confirmation payload.
type OrderView struct {
	ID            string              `json:"id"`
	Reference     string              `json:"reference"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	CustomerName  string              `json:"customerName"`
	Phone         string              `json:"phone"`
	Email         *string             `json:"email,omitempty"`
	Shipping      ShippingAddress     `json:"shipping"`
	Note          *string             `json:"note,omitempty"`
	Items         []ItemView          `json:"items"`
	SubtotalBaht  int                 `json:"subtotal"`
	ShippingBaht  int                 `json:"shippingFee"`
	TotalBaht     int                 `json:"total"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// NewOrderView maps a stored order to its API shape.
func NewOrderView(order *models.Order) *OrderView {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{
			ProductID:     item.ProductID,
			TierID:        item.TierID,
			Name:          item.Name,
			PackQuantity:  item.PackQuantity,
			UnitPriceBaht: item.UnitPriceBaht,
			Quantity:      item.Quantity,
			LineTotalBaht: item.LineTotalBaht,
		})
	}
	return &OrderView{
		ID:            order.ID.String(),
		Reference:     order.Reference,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Email:         order.Email,
		Shipping: ShippingAddress{
			AddressLine: order.AddressLine,
			District:    order.District,
			Province:    order.Province,
			PostalCode:  order.PostalCode,
		},
		Note:         order.Note,
		Items:        items,
		SubtotalBaht: order.SubtotalBaht,
		ShippingBaht: order.ShippingBaht,
		TotalBaht:    order.TotalBaht,
		CreatedAt:    order.CreatedAt,
	}
}
