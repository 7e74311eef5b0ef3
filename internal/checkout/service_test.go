package checkout

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/internal/notifications"
	"github.com/herbalstore/storefront-backend/internal/orders"
	"github.com/herbalstore/storefront-backend/pkg/config"
	"github.com/herbalstore/storefront-backend/pkg/db"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	"github.com/herbalstore/storefront-backend/pkg/outbox"
)

type stubCarts struct {
	discarded []string
	err       error
}

func (s *stubCarts) Discard(_ context.Context, sessionID string) error {
	s.discarded = append(s.discarded, sessionID)
	return s.err
}

type recordingMetrics struct {
	placed   []string
	failures []string
	observed int
}

func (m *recordingMetrics) IncOrderPlaced(pm string)        { m.placed = append(m.placed, pm) }
func (m *recordingMetrics) IncCheckoutFailure(stage string) { m.failures = append(m.failures, stage) }
func (m *recordingMetrics) ObserveCheckout(time.Duration)   { m.observed++ }

type failingNotifier struct{ calls int }

func (f *failingNotifier) Channel() string { return "webhook" }
func (f *failingNotifier) Notify(context.Context, notifications.Message) error {
	f.calls++
	return errors.New("webhook timeout")
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, *gorm.DB, outbox.DomainEvent) error {
	return errors.New("outbox insert failed")
}

type notificationCounter struct{ n int }

func (c *notificationCounter) IncNotificationFailure(string) { c.n++ }

type harness struct {
	conn          *gorm.DB
	carts         *stubCarts
	metrics       *recordingMetrics
	notifier      *failingNotifier
	notifFailures *notificationCounter
	logs          *bytes.Buffer
	svc           Service
}

var shopSettings = config.CheckoutConfig{
	ShippingBaht:      50,
	ReferencePrefix:   "HS",
	PromptPayID:       "0812345678",
	BankName:          "Kasikornbank",
	BankAccountName:   "Herbal Store Co.",
	BankAccountNumber: "123-4-56789-0",
}

func newHarness(t *testing.T, name string, cfg config.CheckoutConfig, mutate func(*ServiceParams)) *harness {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OutboxEvent{}))

	h := &harness{
		conn:          conn,
		carts:         &stubCarts{},
		metrics:       &recordingMetrics{},
		notifier:      &failingNotifier{},
		notifFailures: &notificationCounter{},
		logs:          &bytes.Buffer{},
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: h.logs})

	params := ServiceParams{
		Tx:           db.NewFromConn(conn),
		Orders:       orders.NewRepository(conn),
		Carts:        h.carts,
		Outbox:       outbox.NewService(outbox.NewRepository(conn), logg),
		Instructions: orders.NewInstructionBuilder(cfg),
		Notifier:     notifications.NewDispatcher(logg, h.notifFailures, h.notifier),
		Metrics:      h.metrics,
		Logger:       logg,
		Config:       cfg,
		Now:          func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&params)
	}
	h.svc, err = NewService(params)
	require.NoError(t, err)
	return h
}

func filledCart() *cart.Store {
	store := cart.NewStore("session-1")
	store.AddItem(cart.Line{ProductID: "tea", BaseName: "Herbal Tea", Price: 100})
	store.AddItem(cart.Line{ProductID: "tea", BaseName: "Herbal Tea", Price: 100})
	store.AddItem(cart.Line{ProductID: "balm", TierID: "b2", PackQuantity: 2, BaseName: "Balm", Price: 50})
	return store
}

func validInput(method string) SubmitInput {
	return SubmitInput{
		CustomerName:  "Somchai Jaidee",
		Phone:         "081-234-5678",
		Email:         " Somchai@Example.com ",
		AddressLine:   "99/1 Sukhumvit Rd",
		Province:      "Bangkok",
		PostalCode:    "10110",
		PaymentMethod: method,
		RequestID:     "req-1",
	}
}

func TestSubmitPlacesOrder(t *testing.T) {
	h := newHarness(t, "checkout_ok", shopSettings, nil)
	store := filledCart()

	result, err := h.svc.Submit(context.Background(), store, validInput("promptpay"))
	require.NoError(t, err)

	assert.Equal(t, 250, result.Order.SubtotalBaht)
	assert.Equal(t, 50, result.Order.ShippingBaht)
	assert.Equal(t, 300, result.Order.TotalBaht)
	assert.Equal(t, enums.OrderStatusPendingPayment, result.Order.Status)
	assert.Equal(t, "0812345678", result.Order.Phone)
	require.NotNil(t, result.Order.Email)
	assert.Equal(t, "somchai@example.com", *result.Order.Email)
	assert.Regexp(t, regexp.MustCompile(`^HS-261017-[0-9A-F]{6}$`), result.Order.Reference)

	require.NotNil(t, result.Payment)
	require.NotNil(t, result.Payment.PromptPay)
	assert.Contains(t, result.Payment.PromptPay.Payload, "5406300.00")

	var stored models.Order
	require.NoError(t, h.conn.Preload("Items").Where("reference = ?", result.Order.Reference).First(&stored).Error)
	require.Len(t, stored.Items, 2)
	names := []string{stored.Items[0].Name, stored.Items[1].Name}
	assert.ElementsMatch(t, []string{"Herbal Tea", "Balm x2"}, names)
	assert.Equal(t, "session-1", stored.CartSessionID)

	var events []models.OutboxEvent
	require.NoError(t, h.conn.Where("aggregate_id = ?", stored.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderCreated, events[0].EventType)
	env, err := outbox.DecodeEnvelope(events[0].Payload)
	require.NoError(t, err)
	require.NotNil(t, env.Source)
	assert.Equal(t, "req-1", env.Source.RequestID)

	assert.True(t, store.IsEmpty())
	assert.Equal(t, []string{"session-1"}, h.carts.discarded)
	assert.Equal(t, []string{"promptpay"}, h.metrics.placed)
	assert.Equal(t, 1, h.metrics.observed)
}

func TestSubmitSurvivesNotificationAndCartFailures(t *testing.T) {
	h := newHarness(t, "checkout_besteffort", shopSettings, nil)
	h.carts.err = errors.New("redis down")
	store := filledCart()

	result, err := h.svc.Submit(context.Background(), store, validInput("cod"))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAwaitingConfirmation, result.Order.Status)
	require.NotNil(t, result.Payment)
	assert.Nil(t, result.Payment.PromptPay)

	assert.Equal(t, 1, h.notifier.calls)
	assert.Equal(t, 1, h.notifFailures.n)
	assert.Contains(t, h.metrics.failures, "cart_clear")
	assert.Contains(t, h.logs.String(), "notification delivery failed")

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Where("reference = ?", result.Order.Reference).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitFreeShipping(t *testing.T) {
	cfg := shopSettings
	cfg.FreeShippingMinBaht = 250
	h := newHarness(t, "checkout_freeship", cfg, nil)

	result, err := h.svc.Submit(context.Background(), filledCart(), validInput("bank_transfer"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Order.ShippingBaht)
	assert.Equal(t, 250, result.Order.TotalBaht)
	require.NotNil(t, result.Payment.Bank)
	assert.Equal(t, "123-4-56789-0", result.Payment.Bank.AccountNumber)
}

func TestSubmitRejectsInvalidInputWithoutWriting(t *testing.T) {
	h := newHarness(t, "checkout_invalid", shopSettings, nil)
	store := filledCart()

	input := validInput("promptpay")
	input.Phone = "12345"
	input.PostalCode = "1011"
	input.CustomerName = "A"

	_, err := h.svc.Submit(context.Background(), store, input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "phone")
	assert.Contains(t, details, "postalCode")
	assert.Contains(t, details, "customerName")

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.False(t, store.IsEmpty())
	assert.Empty(t, h.carts.discarded)
}

func TestSubmitEmptyCart(t *testing.T) {
	h := newHarness(t, "checkout_empty", shopSettings, nil)

	_, err := h.svc.Submit(context.Background(), cart.NewStore("s"), validInput("cod"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCartEmpty))
	assert.Equal(t, "cart is empty", pkgerrors.As(err).Message())
}

func TestSubmitUnconfiguredPaymentMethod(t *testing.T) {
	h := newHarness(t, "checkout_nopromptpay", config.CheckoutConfig{ShippingBaht: 50}, nil)

	_, err := h.svc.Submit(context.Background(), filledCart(), validInput("promptpay"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSubmitRollsBackWhenOutboxFails(t *testing.T) {
	h := newHarness(t, "checkout_rollback", shopSettings, func(p *ServiceParams) {
		p.Outbox = failingEmitter{}
	})
	store := filledCart()

	_, err := h.svc.Submit(context.Background(), store, validInput("cod"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency), "got %v", err)

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.False(t, store.IsEmpty())
	assert.Contains(t, h.metrics.failures, "persist")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestShippingFee(t *testing.T) {
	cases := []struct{ subtotal, flat, freeMin, want int }{
		{250, 50, 0, 50},
		{250, 50, 300, 50},
		{300, 50, 300, 0},
		{999, 0, 0, 0},
	}
	for _, tc := range cases {
		if got := shippingFee(tc.subtotal, tc.flat, tc.freeMin); got != tc.want {
			t.Fatalf("shippingFee(%d, %d, %d) = %d, want %d", tc.subtotal, tc.flat, tc.freeMin, got, tc.want)
		}
	}
}

func TestNewReference(t *testing.T) {
	ref := newReference(" hs ", time.Date(2026, 1, 31, 18, 30, 0, 0, time.UTC))
	if !strings.HasPrefix(ref, "HS-260201-") || len(ref) != len("HS-260201-")+6 {
		t.Fatalf("unexpected reference %q", ref)
	}
	if newReference("", time.Now()) == newReference("", time.Now()) {
		t.Fatal("references should differ")
	}
}
