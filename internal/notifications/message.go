package notifications

import (
	"fmt"
	"strings"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
)

// Message is a channel-agnostic admin notification.
type Message struct {
	Subject string
	Text    string
	OrderID string
}

// OrderPlacedMessage renders the new-order alert for shop staff.
func OrderPlacedMessage(order *models.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.Reference)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, order.Phone)
	fmt.Fprintf(&b, "Ship to: %s, %s %s\n", order.AddressLine, order.Province, order.PostalCode)
	fmt.Fprintf(&b, "Payment: %s\n", order.PaymentMethod)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d = %d THB\n", item.Name, item.Quantity, item.LineTotalBaht)
	}
	if order.ShippingBaht > 0 {
		fmt.Fprintf(&b, "Shipping: %d THB\n", order.ShippingBaht)
	}
	fmt.Fprintf(&b, "Total: %d THB", order.TotalBaht)
	if order.Note != nil && strings.TrimSpace(*order.Note) != "" {
		fmt.Fprintf(&b, "\nNote: %s", strings.TrimSpace(*order.Note))
	}

	return Message{
		Subject: "New order " + order.Reference,
		Text:    b.String(),
		OrderID: order.ID.String(),
	}
}
