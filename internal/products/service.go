package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/internal/promotions"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/pagination"
)

type productReader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	ListActive(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error)
}

type catalogLoader interface {
	Catalog(ctx context.Context) promotions.Catalog
}

// Service exposes storefront product reads.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id string) (*Summary, error)
	// Lookup returns the raw product row for callers that price it themselves.
	Lookup(ctx context.Context, id string) (*models.Product, error)
}

type service struct {
	repo    productReader
	catalog catalogLoader
}

func NewService(repo productReader, catalog catalogLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("tier catalog required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListActive(ctx, filters, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ListResult{Products: make([]Summary, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{Position: last.SortOrder, ID: last.ID})
		rows = rows[:limit]
	}

	catalog := s.catalog.Catalog(ctx)
	for _, row := range rows {
		result.Products = append(result.Products, newSummary(row, catalog))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id string) (*Summary, error) {
	product, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := newSummary(*product, s.catalog.Catalog(ctx))
	return &summary, nil
}

func (s *service) Lookup(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
