package orders

import (
	"fmt"
	"strings"

	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/promptpay"
)

// BankAccount is the destination for manual transfers.
type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

// PaymentInstructions tell the shopper how to pay for an order.
type PaymentInstructions struct {
	Method     enums.PaymentMethod `json:"method"`
	Reference  string              `json:"reference"`
	AmountBaht int                 `json:"amountBaht"`
	PromptPay  *promptpay.QR       `json:"promptpay,omitempty"`
	Bank       *BankAccount        `json:"bank,omitempty"`
	Message    string              `json:"message"`
}

// InstructionBuilder renders payment instructions from shop settings.
type InstructionBuilder struct {
	promptPayID string
	bank        BankAccount
	qrSize      int
}

func NewInstructionBuilder(cfg config.CheckoutConfig) *InstructionBuilder {
	return &InstructionBuilder{
		promptPayID: strings.TrimSpace(cfg.PromptPayID),
		bank: BankAccount{
			BankName:      strings.TrimSpace(cfg.BankName),
			AccountName:   strings.TrimSpace(cfg.BankAccountName),
			AccountNumber: strings.TrimSpace(cfg.BankAccountNumber),
		},
		qrSize: promptpay.DefaultQRSize,
	}
}

// Supports reports whether the shop is set up to accept method.
func (b *InstructionBuilder) Supports(method enums.PaymentMethod) bool {
	switch method {
	case enums.PaymentMethodPromptPay:
		return b.promptPayID != ""
	case enums.PaymentMethodBankTransfer:
		return b.bank.AccountNumber != ""
	case enums.PaymentMethodCOD:
		return true
	}
	return false
}

func (b *InstructionBuilder) Build(order *models.Order) (*PaymentInstructions, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order required")
	}
	if !b.Supports(order.PaymentMethod) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("%s payments are not configured", order.PaymentMethod))
	}

	out := &PaymentInstructions{
		Method:     order.PaymentMethod,
		Reference:  order.Reference,
		AmountBaht: order.TotalBaht,
	}

	switch order.PaymentMethod {
	case enums.PaymentMethodPromptPay:
		qr, err := promptpay.Render(b.promptPayID, order.TotalBaht, b.qrSize)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render promptpay qr")
		}
		out.PromptPay = qr
		out.Message = fmt.Sprintf("Scan the QR code to pay %d THB, then send the slip quoting %s.", order.TotalBaht, order.Reference)
	case enums.PaymentMethodBankTransfer:
		bank := b.bank
		out.Bank = &bank
		out.Message = fmt.Sprintf("Transfer %d THB to %s %s and quote %s.", order.TotalBaht, bank.BankName, bank.AccountNumber, order.Reference)
	case enums.PaymentMethodCOD:
		out.Message = fmt.Sprintf("Pay %d THB to the courier on delivery.", order.TotalBaht)
	}
	return out, nil
}
