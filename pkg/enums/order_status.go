package enums

import "fmt"

// OrderStatus tracks where an order sits after submission.
type OrderStatus string

const (
	OrderStatusPendingPayment       OrderStatus = "pending_payment"
	OrderStatusAwaitingConfirmation OrderStatus = "awaiting_confirmation"
	OrderStatusPaid                 OrderStatus = "paid"
	OrderStatusShipped              OrderStatus = "shipped"
	OrderStatusCanceled             OrderStatus = "canceled"
	OrderStatusExpired              OrderStatus = "expired"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusAwaitingConfirmation,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCanceled,
	OrderStatusExpired,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// InitialOrderStatus returns the status a freshly submitted order starts in.
// Cash on delivery orders skip the payment wait.
func InitialOrderStatus(method PaymentMethod) OrderStatus {
	if method == PaymentMethodCOD {
		return OrderStatusAwaitingConfirmation
	}
	return OrderStatusPendingPayment
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
