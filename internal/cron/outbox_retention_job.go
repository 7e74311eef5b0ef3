package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/logger"
)

const defaultOutboxRetentionDays = 30

type OutboxRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    outboxPruner
	RetentionDays int
	// ParkedAttempts matches the publisher's max attempts so rows it gave up
	// on age out with the published ones. Zero keeps parked rows forever.
	ParkedAttempts int
}

type outboxPruner interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, parkedAttempts int) (int64, error)
}

func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	days := params.RetentionDays
	if days <= 0 {
		days = defaultOutboxRetentionDays
	}
	return &outboxRetentionJob{
		logg:     params.Logger,
		db:       params.DB,
		repo:     params.Repository,
		days:     days,
		attempts: params.ParkedAttempts,
		now:      time.Now,
	}, nil
}

type outboxRetentionJob struct {
	logg     *logger.Logger
	db       txRunner
	repo     outboxPruner
	days     int
	attempts int
	now      func() time.Time
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.days)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.repo.DeletePublishedBefore(ctx, tx, cutoff, j.attempts)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("prune outbox: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":          cutoff,
		"retention_days":  j.days,
		"parked_attempts": j.attempts,
		"rows_deleted":    deleted,
	}), "outbox retention complete")
	return nil
}
