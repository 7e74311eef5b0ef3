package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rediscache "github.com/herbalstore/storefront-backend/pkg/redis"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartSessionKey(sessionID string) string
}

// SessionRepository persists carts in Redis keyed by cart session id.
type SessionRepository struct {
	kv  kvStore
	ttl time.Duration
}

func NewSessionRepository(kv kvStore, ttl time.Duration) (*SessionRepository, error) {
	if kv == nil {
		return nil, errors.New("cart session store required")
	}
	if ttl < 0 {
		return nil, errors.New("cart session ttl must be non-negative")
	}
	return &SessionRepository{kv: kv, ttl: ttl}, nil
}

// Load returns the stored cart or an empty one when the session is unknown.
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*Store, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartSessionKey(sessionID))
	if err != nil {
		if rediscache.IsMiss(err) {
			return NewStore(sessionID), nil
		}
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	store := NewStore(sessionID)
	if err := json.Unmarshal([]byte(raw), store); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", sessionID, err)
	}
	store.sessionID = sessionID
	return store, nil
}

// Save writes the cart and refreshes its TTL.
func (r *SessionRepository) Save(ctx context.Context, store *Store) error {
	if store == nil {
		return errors.New("cart store required")
	}
	payload, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", store.SessionID(), err)
	}
	return r.kv.Set(ctx, r.kv.CartSessionKey(store.SessionID()), string(payload), r.ttl)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.kv.Del(ctx, r.kv.CartSessionKey(sessionID))
}
