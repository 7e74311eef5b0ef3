package product

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/internal/promotions"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/pagination"
)

type stubReader struct {
	products  map[string]models.Product
	list      []models.Product
	findErr   error
	lastLimit int
}

func (s *stubReader) FindByID(_ context.Context, id string) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (s *stubReader) ListActive(_ context.Context, _ ListFilters, _ *pagination.Cursor, limit int) ([]models.Product, error) {
	s.lastLimit = limit
	if len(s.list) > limit {
		return s.list[:limit], nil
	}
	return s.list, nil
}

type staticCatalog struct{ catalog promotions.Catalog }

func (s staticCatalog) Catalog(context.Context) promotions.Catalog { return s.catalog }

func gingerTiers() []promotions.Tier {
	return []promotions.Tier{
		{ID: "t1", ProductID: "ginger", Quantity: 1, Price: 1290, NormalPrice: 1800},
		{ID: "t3", ProductID: "ginger", Quantity: 3, Price: 1125, NormalPrice: 5400},
	}
}

func TestGetPricesByAvailability(t *testing.T) {
	t.Parallel()

	reader := &stubReader{products: map[string]models.Product{
		"ginger":   {ID: "ginger", Name: "Ginger", Price: 1500},
		"turmeric": {ID: "turmeric", Name: "Turmeric", Price: 390},
	}}

	svc, err := NewService(reader, staticCatalog{promotions.LoadedCatalog(gingerTiers())})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ginger, err := svc.Get(context.Background(), "ginger")
	if err != nil {
		t.Fatalf("get ginger: %v", err)
	}
	if ginger.Availability != promotions.AvailabilityTiered || ginger.StartingAt == nil || *ginger.StartingAt != 1125 {
		t.Fatalf("expected packages starting at 1125, got %+v", ginger)
	}

	turmeric, err := svc.Get(context.Background(), "turmeric")
	if err != nil {
		t.Fatalf("get turmeric: %v", err)
	}
	if turmeric.Availability != promotions.AvailabilityDirect || *turmeric.StartingAt != 390 {
		t.Fatalf("expected direct at 390, got %+v", turmeric)
	}
	if turmeric.Tags == nil {
		t.Fatalf("tags should never be nil")
	}
}

func TestGetWithUnloadedCatalog(t *testing.T) {
	t.Parallel()

	reader := &stubReader{products: map[string]models.Product{"ginger": {ID: "ginger", Price: 1500}}}
	svc, _ := NewService(reader, staticCatalog{promotions.Catalog{Err: errors.New("down")}})

	got, err := svc.Get(context.Background(), "ginger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Availability != promotions.AvailabilityUnknown || got.StartingAt != nil {
		t.Fatalf("expected unknown availability without price, got %+v", got)
	}
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubReader{products: map[string]models.Product{}}, staticCatalog{})
	if _, err := svc.Get(context.Background(), "missing"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Get(context.Background(), " "); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	broken, _ := NewService(&stubReader{findErr: errors.New("conn reset")}, staticCatalog{})
	if _, err := broken.Lookup(context.Background(), "x"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestListBuildsNextCursor(t *testing.T) {
	t.Parallel()

	reader := &stubReader{list: []models.Product{
		{ID: "a", SortOrder: 1, Price: 10},
		{ID: "b", SortOrder: 2, Price: 20},
		{ID: "c", SortOrder: 3, Price: 30},
	}}
	svc, _ := NewService(reader, staticCatalog{promotions.LoadedCatalog(nil)})

	page, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if reader.lastLimit != 3 {
		t.Fatalf("expected buffered limit 3, got %d", reader.lastLimit)
	}
	if len(page.Products) != 2 || page.NextCursor == "" {
		t.Fatalf("expected two products and a cursor, got %+v", page)
	}
	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor.ID != "b" || cursor.Position != 2 {
		t.Fatalf("unexpected cursor %+v %v", cursor, err)
	}

	if _, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Cursor: "%%"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid cursor to be rejected, got %v", err)
	}
}
