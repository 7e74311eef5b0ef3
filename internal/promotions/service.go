package promotions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	rediscache "github.com/herbalstore/storefront-backend/pkg/redis"
)

type tierRepository interface {
	ListActive(ctx context.Context) ([]models.PromotionTier, error)
}

type tierCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ActiveTiersKey() string
}

type fetchRecorder interface {
	IncTierFetch(source string)
}

// Service loads the active tier catalog. It never fails the caller: a failed
// fetch comes back as a Catalog that is not loaded.
type Service interface {
	Catalog(ctx context.Context) Catalog
}

type ServiceParams struct {
	Repository tierRepository
	Cache      tierCache
	CacheTTL   time.Duration
	Logger     *logger.Logger
	Metrics    fetchRecorder
}

type service struct {
	repo    tierRepository
	cache   tierCache
	ttl     time.Duration
	logg    *logger.Logger
	metrics fetchRecorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, fmt.Errorf("tier repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repository,
		cache:   params.Cache,
		ttl:     params.CacheTTL,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Catalog(ctx context.Context) Catalog {
	if tiers, ok := s.fromCache(ctx); ok {
		s.record("cache")
		return LoadedCatalog(tiers)
	}

	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		s.record("error")
		s.logg.Error(ctx, "promotion tiers unavailable", err)
		return Catalog{Err: err}
	}
	s.record("db")

	tiers := make([]Tier, 0, len(rows))
	misconfigured := 0
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		tier := toTier(row)
		if tier.IsMisconfigured() {
			misconfigured++
		}
		tiers = append(tiers, tier)
	}
	if misconfigured > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "misconfigured_tiers", misconfigured), "tiers priced above their normal price")
	}

	s.toCache(ctx, tiers)
	return LoadedCatalog(tiers)
}

func (s *service) fromCache(ctx context.Context) ([]Tier, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.ActiveTiersKey())
	if err != nil {
		if !rediscache.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "tier cache read failed")
		}
		return nil, false
	}
	var tiers []Tier
	if err := json.Unmarshal([]byte(raw), &tiers); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "tier cache payload invalid")
		return nil, false
	}
	return tiers, true
}

func (s *service) toCache(ctx context.Context, tiers []Tier) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(tiers)
	if err == nil {
		err = s.cache.Set(ctx, s.cache.ActiveTiersKey(), string(payload), s.ttl)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "tier cache write failed")
	}
}

func (s *service) record(source string) {
	if s.metrics != nil {
		s.metrics.IncTierFetch(source)
	}
}

// ErrNotLoaded is returned by callers that need tiers but got an unloaded catalog.
var ErrNotLoaded = errors.New("promotion tiers not loaded")
