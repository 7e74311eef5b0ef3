package promotions

import "github.com/shopspring/decimal"

// Tier is an active promotion package for a product. Prices are whole baht.
type Tier struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	Price        int    `json:"price"`
	NormalPrice  int    `json:"normalPrice"`
	IsBestSeller bool   `json:"isBestSeller"`
	SortOrder    int    `json:"sortOrder"`
	IsActive     bool   `json:"isActive"`
}

// TiersForProduct filters all by product, keeping the input order.
func TiersForProduct(all []Tier, productID string) []Tier {
	out := make([]Tier, 0)
	for _, t := range all {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out
}

// LowestPrice returns the cheapest tier price for the product. The second
// result is false when the product has no tiers.
func LowestPrice(all []Tier, productID string) (int, bool) {
	lowest, found := 0, false
	for _, t := range all {
		if t.ProductID != productID {
			continue
		}
		if !found || t.Price < lowest {
			lowest, found = t.Price, true
		}
	}
	return lowest, found
}

// DefaultTier picks the first best seller, else the first tier.
func DefaultTier(tiers []Tier) (Tier, bool) {
	for _, t := range tiers {
		if t.IsBestSeller {
			return t, true
		}
	}
	if len(tiers) > 0 {
		return tiers[0], true
	}
	return Tier{}, false
}

// FindTier looks up a tier by id within tiers.
func FindTier(tiers []Tier, tierID string) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == tierID {
			return t, true
		}
	}
	return Tier{}, false
}

// Badge is the savings display for a tier.
type Badge struct {
	Savings         int  `json:"savings"`
	DiscountPercent int  `json:"discountPercent"`
	Misconfigured   bool `json:"misconfigured,omitempty"`
}

// ComputeBadge derives savings and the rounded discount percentage. A tier
// priced at or above its normal price, or with no normal price, shows no
// discount; the former is flagged as misconfigured.
func ComputeBadge(t Tier) Badge {
	if t.NormalPrice <= 0 {
		return Badge{Misconfigured: t.NormalPrice < 0}
	}
	savings := t.NormalPrice - t.Price
	if savings < 0 {
		return Badge{Misconfigured: true}
	}
	pct := decimal.NewFromInt(int64(savings)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(t.NormalPrice))).
		Round(0)
	return Badge{Savings: savings, DiscountPercent: int(pct.IntPart())}
}

// IsMisconfigured reports tiers whose bundle price exceeds the reference price.
func (t Tier) IsMisconfigured() bool {
	return ComputeBadge(t).Misconfigured
}
