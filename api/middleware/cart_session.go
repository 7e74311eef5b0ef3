package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/herbalstore/storefront-backend/api/responses"
	"github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/pkg/logger"
)

// CartSessionHeader carries the opaque cart session id between requests.
const CartSessionHeader = "X-Cart-Session"

type cartOpener interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

// CartSession loads the shopper's cart once per request and provisions it in
// the request context. A missing or malformed session id starts a new cart;
// the id in use is always echoed back in the response header.
func CartSession(carts cartOpener, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			store, err := carts.Open(ctx, sessionID)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			w.Header().Set(CartSessionHeader, sessionID)
			next.ServeHTTP(w, r.WithContext(cart.WithStore(ctx, store)))
		})
	}
}
