package orders

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

type stubReader struct {
	orders map[uuid.UUID]*models.Order
	err    error
}

func (s *stubReader) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

var shopSettings = config.CheckoutConfig{
	PromptPayID:       "0812345678",
	BankName:          "Kasikornbank",
	BankAccountName:   "Herbal Store Co.",
	BankAccountNumber: "123-4-56789-0",
}

func newServiceWith(t *testing.T, orders ...*models.Order) Service {
	t.Helper()
	reader := &stubReader{orders: map[uuid.UUID]*models.Order{}}
	for _, o := range orders {
		reader.orders[o.ID] = o
	}
	svc, err := NewService(reader, NewInstructionBuilder(shopSettings))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func storedOrder(method enums.PaymentMethod) *models.Order {
	order := newTestOrder("HS-261016-CCCCCC")
	order.ID = uuid.New()
	order.PaymentMethod = method
	return order
}

func TestGetMapsOrder(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.PaymentMethodCOD)
	view, err := newServiceWith(t, order).Get(context.Background(), order.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Reference != order.Reference || view.TotalBaht != 2510 || len(view.Items) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Shipping.Province != "Bangkok" {
		t.Fatalf("unexpected shipping %+v", view.Shipping)
	}
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	svc := newServiceWith(t)
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.NewString()); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	broken, _ := NewService(&stubReader{err: errors.New("db down")}, NewInstructionBuilder(shopSettings))
	if _, err := broken.Payment(context.Background(), uuid.NewString()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPaymentPromptPay(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.PaymentMethodPromptPay)
	pay, err := newServiceWith(t, order).Payment(context.Background(), order.ID.String())
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if pay.PromptPay == nil || pay.Bank != nil {
		t.Fatalf("expected promptpay instructions only, got %+v", pay)
	}
	if !strings.Contains(pay.PromptPay.Payload, "54072510.00") {
		t.Fatalf("payload should carry the order total: %q", pay.PromptPay.Payload)
	}
	if _, err := base64.StdEncoding.DecodeString(pay.PromptPay.PNGBase64); err != nil {
		t.Fatalf("qr is not base64: %v", err)
	}
	if !strings.Contains(pay.Message, order.Reference) {
		t.Fatalf("message should quote the reference: %q", pay.Message)
	}
}

func TestPaymentBankAndCOD(t *testing.T) {
	t.Parallel()

	bankOrder := storedOrder(enums.PaymentMethodBankTransfer)
	codOrder := storedOrder(enums.PaymentMethodCOD)
	svc := newServiceWith(t, bankOrder, codOrder)

	bank, err := svc.Payment(context.Background(), bankOrder.ID.String())
	if err != nil {
		t.Fatalf("bank payment: %v", err)
	}
	if bank.Bank == nil || bank.Bank.AccountNumber != "123-4-56789-0" || bank.PromptPay != nil {
		t.Fatalf("unexpected bank instructions %+v", bank)
	}

	cod, err := svc.Payment(context.Background(), codOrder.ID.String())
	if err != nil {
		t.Fatalf("cod payment: %v", err)
	}
	if cod.Bank != nil || cod.PromptPay != nil || cod.AmountBaht != 2510 {
		t.Fatalf("unexpected cod instructions %+v", cod)
	}
}

func TestInstructionBuilderSupports(t *testing.T) {
	t.Parallel()

	empty := NewInstructionBuilder(config.CheckoutConfig{})
	if empty.Supports(enums.PaymentMethodPromptPay) || empty.Supports(enums.PaymentMethodBankTransfer) {
		t.Fatalf("unconfigured transfers must be unsupported")
	}
	if !empty.Supports(enums.PaymentMethodCOD) {
		t.Fatalf("cod needs no settings")
	}
	if _, err := empty.Build(storedOrder(enums.PaymentMethodPromptPay)); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
