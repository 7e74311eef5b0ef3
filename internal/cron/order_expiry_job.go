package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/enums"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	"github.com/herbalstore/storefront-backend/pkg/outbox"
	"github.com/herbalstore/storefront-backend/pkg/outbox/payloads"
)

const (
	defaultUnpaidOrderTTL  = 72 * time.Hour
	defaultExpiryBatchSize = 200
)

// OrderExpiryJobParams configure the job that expires unpaid transfer orders.
type OrderExpiryJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Orders    unpaidOrderStore
	Outbox    outbox.Emitter
	TTL       time.Duration
	BatchSize int
}

type unpaidOrderStore interface {
	FindUnpaidBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	ExpireTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error)
}

func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultUnpaidOrderTTL
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatchSize
	}
	return &orderExpiryJob{
		logg:   params.Logger,
		db:     params.DB,
		orders: params.Orders,
		outbox: params.Outbox,
		ttl:    ttl,
		batch:  batch,
		now:    time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg   *logger.Logger
	db     txRunner
	orders unpaidOrderStore
	outbox outbox.Emitter
	ttl    time.Duration
	batch  int
	now    func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

// Run expires each due order in its own transaction so one bad row does not
// hold back the rest.
func (j *orderExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.ttl)
	due, err := j.orders.FindUnpaidBefore(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query unpaid orders: %w", err)
	}

	var (
		errs    error
		expired int
		skipped int
	)
	for _, order := range due {
		changed, err := j.expire(ctx, order, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire order %s: %w", order.Reference, err))
			continue
		}
		if changed {
			expired++
		} else {
			skipped++
		}
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"due":     len(due),
		"expired": expired,
		"skipped": skipped,
		"failed":  len(multierr.Errors(errs)),
	}), "order expiry complete")
	return errs
}

func (j *orderExpiryJob) expire(ctx context.Context, order models.Order, now time.Time) (bool, error) {
	changed := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := j.orders.ExpireTx(ctx, tx, order.ID, now)
		if err != nil || !ok {
			return err
		}
		changed = true
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderExpired,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderExpiredEvent{
				OrderID:       order.ID,
				Reference:     order.Reference,
				PaymentMethod: order.PaymentMethod,
				TotalBaht:     order.TotalBaht,
				ExpiredAt:     now,
			},
		})
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}
