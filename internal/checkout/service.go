package checkout

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/internal/orders"
	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	"github.com/herbalstore/storefront-backend/pkg/outbox"
	"github.com/herbalstore/storefront-backend/pkg/outbox/payloads"
)

const referenceAttempts = 2

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartDiscarder interface {
	Discard(ctx context.Context, sessionID string) error
}

type paymentBuilder interface {
	Supports(method enums.PaymentMethod) bool
	Build(order *models.Order) (*orders.PaymentInstructions, error)
}

type orderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
}

type checkoutRecorder interface {
	IncOrderPlaced(paymentMethod string)
	IncCheckoutFailure(stage string)
	ObserveCheckout(d time.Duration)
}

// Result is what the shopper sees after placing an order. Payment is nil for
// a committed order whose instructions could not be rendered; they can be
// fetched again from the order's payment page.
type Result struct {
	Order   *orders.OrderView           `json:"order"`
	Payment *orders.PaymentInstructions `json:"payment,omitempty"`
}

// Service executes checkout orchestration.
type Service interface {
	Submit(ctx context.Context, store *cart.Store, input SubmitInput) (*Result, error)
}

type ServiceParams struct {
	Tx           txRunner
	Orders       orders.Repository
	Carts        cartDiscarder
	Outbox       outbox.Emitter
	Instructions paymentBuilder
	Notifier     orderNotifier
	Metrics      checkoutRecorder
	Logger       *logger.Logger
	Config       config.CheckoutConfig
	Now          func() time.Time
}

type service struct {
	tx           txRunner
	orders       orders.Repository
	carts        cartDiscarder
	outbox       outbox.Emitter
	instructions paymentBuilder
	notifier     orderNotifier
	metrics      checkoutRecorder
	logg         *logger.Logger
	cfg          config.CheckoutConfig
	now          func() time.Time
}

// NewService builds the checkout service.
func NewService(p ServiceParams) (Service, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if p.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if p.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if p.Instructions == nil {
		return nil, fmt.Errorf("payment instruction builder required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		tx:           p.Tx,
		orders:       p.Orders,
		carts:        p.Carts,
		outbox:       p.Outbox,
		instructions: p.Instructions,
		notifier:     p.Notifier,
		metrics:      p.Metrics,
		logg:         p.Logger,
		cfg:          p.Config,
		now:          p.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, store *cart.Store, input SubmitInput) (*Result, error) {
	started := s.now()
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store missing")
	}
	ctx = s.logg.WithSessionID(ctx, store.SessionID())

	if err := input.Validate(); err != nil {
		s.fail("validation")
		return nil, err
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		s.fail("validation")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment method")
	}
	if !s.instructions.Supports(method) {
		s.fail("validation")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is not available").
			WithDetails(map[string]string{"paymentMethod": "is not available right now"})
	}

	items := store.Items()
	if len(items) == 0 {
		s.fail("validation")
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "cart is empty")
	}

	var order *models.Order
	for attempt := 1; attempt <= referenceAttempts; attempt++ {
		order = s.buildOrder(store, items, input, method)
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
				return err
			}
			return s.emitOrderCreated(ctx, tx, order, input.RequestID)
		})
		if err == nil || !db.IsUniqueViolation(err, "") {
			break
		}
		s.logg.Warn(s.logg.WithField(ctx, "reference", order.Reference), "order reference collision, regenerating")
	}
	if err != nil {
		s.fail("persist")
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order could not be saved")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"reference":      order.Reference,
		"payment_method": order.PaymentMethod,
		"total_baht":     order.TotalBaht,
	}), "order placed")

	store.Clear()
	if err := s.carts.Discard(ctx, store.SessionID()); err != nil {
		s.fail("cart_clear")
		s.logg.Error(ctx, "cart not cleared after checkout", err)
	}

	result := &Result{Order: orders.NewOrderView(order)}
	payment, err := s.instructions.Build(order)
	if err != nil {
		s.fail("payment_instructions")
		s.logg.Error(ctx, "payment instructions unavailable", err)
	} else {
		result.Payment = payment
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}

	if s.metrics != nil {
		s.metrics.IncOrderPlaced(string(method))
		s.metrics.ObserveCheckout(s.now().Sub(started))
	}
	return result, nil
}

func (s *service) buildOrder(store *cart.Store, items []cart.Item, input SubmitInput, method enums.PaymentMethod) *models.Order {
	subtotal := 0
	snapshot := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		line := models.OrderItem{
			ProductID:     item.ProductID,
			TierID:        optional(item.TierID),
			Name:          item.Name(),
			PackQuantity:  item.PackQuantity,
			UnitPriceBaht: item.Price,
			Quantity:      item.Quantity,
			LineTotalBaht: item.LineTotal(),
		}
		subtotal += line.LineTotalBaht
		snapshot = append(snapshot, line)
	}
	shipping := shippingFee(subtotal, s.cfg.ShippingBaht, s.cfg.FreeShippingMinBaht)

	return &models.Order{
		Reference:     newReference(s.cfg.ReferencePrefix, s.now()),
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		Email:         optional(input.Email),
		AddressLine:   input.AddressLine,
		District:      input.District,
		Province:      input.Province,
		PostalCode:    input.PostalCode,
		Note:          optional(input.Note),
		PaymentMethod: method,
		Status:        enums.InitialOrderStatus(method),
		SubtotalBaht:  subtotal,
		ShippingBaht:  shipping,
		TotalBaht:     subtotal + shipping,
		CartSessionID: store.SessionID(),
		Items:         snapshot,
	}
}

func (s *service) emitOrderCreated(ctx context.Context, tx *gorm.DB, order *models.Order, requestID string) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Source: &outbox.Source{
			CartSessionID: order.CartSessionID,
			RequestID:     requestID,
		},
		Data: payloads.OrderCreatedEvent{
			OrderID:       order.ID,
			Reference:     order.Reference,
			PaymentMethod: order.PaymentMethod,
			Status:        order.Status,
			TotalBaht:     order.TotalBaht,
			ItemCount:     len(order.Items),
			Province:      order.Province,
		},
		Version: 1,
	})
}

func (s *service) fail(stage string) {
	if s.metrics != nil {
		s.metrics.IncCheckoutFailure(stage)
	}
}
