package enums

import "fmt"

// PaymentMethod describes how a shopper intends to pay for an order.
type PaymentMethod string

const (
	PaymentMethodPromptPay    PaymentMethod = "promptpay"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCOD          PaymentMethod = "cod"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodPromptPay,
	PaymentMethodBankTransfer,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresTransfer reports whether the shopper must send money before shipping.
func (p PaymentMethod) RequiresTransfer() bool {
	return p == PaymentMethodPromptPay || p == PaymentMethodBankTransfer
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
