package cart

import "context"

type storeCtxKey struct{}

// WithStore provisions the cart for the rest of the request.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeCtxKey{}, store)
}

// FromContext returns the provisioned cart. Calling it outside a provisioned
// scope is a programming error and panics.
func FromContext(ctx context.Context) *Store {
	if ctx != nil {
		if store, ok := ctx.Value(storeCtxKey{}).(*Store); ok && store != nil {
			return store
		}
	}
	panic("cart: FromContext called without a provisioned cart store; wrap the route with the cart session middleware")
}

// Lookup returns the provisioned cart without panicking.
func Lookup(ctx context.Context) (*Store, bool) {
	if ctx == nil {
		return nil, false
	}
	store, ok := ctx.Value(storeCtxKey{}).(*Store)
	return store, ok && store != nil
}
