package selection

import (
	"context"
	"fmt"
	"strings"

	"github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/internal/promotions"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

type productLookup interface {
	Lookup(ctx context.Context, id string) (*models.Product, error)
}

type catalogLoader interface {
	Catalog(ctx context.Context) promotions.Catalog
}

// TierOption is one selectable package with its savings badge.
type TierOption struct {
	promotions.Tier
	Badge promotions.Badge `json:"badge"`
	Label string           `json:"label"`
}

// Options describes how a product can be added to the cart.
type Options struct {
	ProductID     string                  `json:"productId"`
	Name          string                  `json:"name"`
	Mode          promotions.Availability `json:"mode"`
	StartingPrice *int                    `json:"startingPrice"`
	Tiers         []TierOption            `json:"tiers"`
	DefaultTierID string                  `json:"defaultTierId,omitempty"`
}

// Service turns a product or package choice into exactly one cart line.
type Service interface {
	Options(ctx context.Context, productID string) (*Options, error)
	AddToCart(ctx context.Context, store *cart.Store, productID, tierID string) (cart.Notice, error)
}

type service struct {
	products productLookup
	catalog  catalogLoader
}

func NewService(products productLookup, catalog catalogLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("tier catalog required")
	}
	return &service{products: products, catalog: catalog}, nil
}

func (s *service) Options(ctx context.Context, productID string) (*Options, error) {
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}

	catalog := s.catalog.Catalog(ctx)
	opts := &Options{
		ProductID: product.ID,
		Name:      product.Name,
		Mode:      catalog.Resolve(product.ID),
		Tiers:     []TierOption{},
	}

	switch opts.Mode {
	case promotions.AvailabilityDirect:
		price := product.Price
		opts.StartingPrice = &price
	case promotions.AvailabilityTiered:
		tiers := catalog.ForProduct(product.ID)
		for _, t := range tiers {
			opts.Tiers = append(opts.Tiers, TierOption{
				Tier:  t,
				Badge: promotions.ComputeBadge(t),
				Label: packLabel(t),
			})
		}
		if def, ok := promotions.DefaultTier(tiers); ok {
			opts.DefaultTierID = def.ID
		}
		if lowest, ok := catalog.LowestPrice(product.ID); ok {
			opts.StartingPrice = &lowest
		}
	}
	return opts, nil
}

func (s *service) AddToCart(ctx context.Context, store *cart.Store, productID, tierID string) (cart.Notice, error) {
	if store == nil {
		return cart.Notice{}, pkgerrors.New(pkgerrors.CodeInternal, "cart store missing")
	}
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		return cart.Notice{}, err
	}
	tierID = strings.TrimSpace(tierID)

	catalog := s.catalog.Catalog(ctx)
	switch catalog.Resolve(product.ID) {
	case promotions.AvailabilityUnknown:
		return cart.Notice{}, pkgerrors.Wrap(pkgerrors.CodeDependency, promotions.ErrNotLoaded, "package selection unavailable, try again shortly")
	case promotions.AvailabilityDirect:
		if tierID != "" {
			return cart.Notice{}, pkgerrors.New(pkgerrors.CodeValidation, "product is not sold in packages").
				WithDetails(map[string]string{"tierId": tierID})
		}
		return store.AddItem(cart.Line{
			ProductID:    product.ID,
			PackQuantity: 1,
			BaseName:     product.Name,
			Price:        product.Price,
			Image:        product.Image,
		}), nil
	}

	tiers := catalog.ForProduct(product.ID)
	var (
		tier promotions.Tier
		ok   bool
	)
	if tierID == "" {
		tier, ok = promotions.DefaultTier(tiers)
	} else {
		tier, ok = promotions.FindTier(tiers, tierID)
	}
	if !ok {
		return cart.Notice{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown package for product").
			WithDetails(map[string]string{"tierId": tierID})
	}

	return store.AddItem(cart.Line{
		ProductID:    product.ID,
		TierID:       tier.ID,
		PackQuantity: tier.Quantity,
		PackUnit:     tier.Unit,
		BaseName:     product.Name,
		Price:        tier.Price,
		Image:        product.Image,
	}), nil
}

func packLabel(t promotions.Tier) string {
	if t.Unit == "" {
		return fmt.Sprintf("%d", t.Quantity)
	}
	return fmt.Sprintf("%d %s", t.Quantity, t.Unit)
}
