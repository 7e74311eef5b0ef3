package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

// newReference builds a shopper-facing order reference such as
// HS-261016-4F9A2C. The date is the shop's local day.
func newReference(prefix string, now time.Time) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = "HS"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + now.In(bangkok).Format("060102") + "-" + suffix
}

// shippingFee applies the flat rate unless the free-shipping threshold is met.
// A zero threshold disables free shipping.
func shippingFee(subtotal, flat, freeMin int) int {
	if freeMin > 0 && subtotal >= freeMin {
		return 0
	}
	return flat
}
