package promotions

// Availability tells the storefront how a product can be bought.
type Availability string

const (
	// AvailabilityUnknown means tiers have not been loaded yet or failed to
	// load; neither package selection nor flat add-to-cart should be offered.
	AvailabilityUnknown Availability = "unknown"
	AvailabilityDirect  Availability = "direct"
	AvailabilityTiered  Availability = "packages"
)

// Catalog is the result of one tier fetch. The zero value is "not loaded",
// which is distinct from a loaded catalog that has no tiers for a product.
type Catalog struct {
	Loaded bool
	Err    error
	Tiers  []Tier
}

// LoadedCatalog wraps a successful fetch.
func LoadedCatalog(tiers []Tier) Catalog {
	if tiers == nil {
		tiers = []Tier{}
	}
	return Catalog{Loaded: true, Tiers: tiers}
}

func (c Catalog) Resolve(productID string) Availability {
	if !c.Loaded {
		return AvailabilityUnknown
	}
	for _, t := range c.Tiers {
		if t.ProductID == productID {
			return AvailabilityTiered
		}
	}
	return AvailabilityDirect
}

func (c Catalog) ForProduct(productID string) []Tier {
	if !c.Loaded {
		return nil
	}
	return TiersForProduct(c.Tiers, productID)
}

func (c Catalog) LowestPrice(productID string) (int, bool) {
	if !c.Loaded {
		return 0, false
	}
	return LowestPrice(c.Tiers, productID)
}
