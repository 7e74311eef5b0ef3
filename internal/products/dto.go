package product

import (
	"github.com/herbalstore/storefront-backend/internal/promotions"
	"github.com/herbalstore/storefront-backend/pkg/db/models"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category string `json:"category,omitempty"`
	Query    string `json:"q,omitempty"`
}

// Summary is the storefront card for a product.
type Summary struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Category     string                  `json:"category"`
	Tags         []string                `json:"tags"`
	Image        string                  `json:"image"`
	Price        int                     `json:"price"`
	StartingAt   *int                    `json:"startingAt"`
	Availability promotions.Availability `json:"availability"`
}

// ListResult is one page of product summaries.
type ListResult struct {
	Products   []Summary `json:"products"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// newSummary prices a product against the catalog. Tiered products start at
// their lowest tier price, direct products at the flat price, and products
// whose tiers are not loaded yet show no starting price.
func newSummary(p models.Product, catalog promotions.Catalog) Summary {
	s := Summary{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Tags:         []string(p.Tags),
		Image:        p.Image,
		Price:        p.Price,
		Availability: catalog.Resolve(p.ID),
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	switch s.Availability {
	case promotions.AvailabilityTiered:
		if lowest, ok := catalog.LowestPrice(p.ID); ok {
			s.StartingAt = &lowest
		}
	case promotions.AvailabilityDirect:
		price := p.Price
		s.StartingAt = &price
	}
	return s
}
