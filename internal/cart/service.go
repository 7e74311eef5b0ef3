package cart

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

type sessionStore interface {
	Load(ctx context.Context, sessionID string) (*Store, error)
	Save(ctx context.Context, store *Store) error
	Delete(ctx context.Context, sessionID string) error
}

type opRecorder interface {
	IncCartOp(op string)
}

// Service loads and persists session carts around in-memory mutations.
type Service interface {
	Open(ctx context.Context, sessionID string) (*Store, error)
	Commit(ctx context.Context, store *Store, notice Notice) error
	Discard(ctx context.Context, sessionID string) error
}

type service struct {
	sessions sessionStore
	metrics  opRecorder
}

// NewService builds a cart service backed by the provided session store.
func NewService(sessions sessionStore, metrics opRecorder) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	return &service{sessions: sessions, metrics: metrics}, nil
}

func (s *service) Open(ctx context.Context, sessionID string) (*Store, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}
	store, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart unavailable")
	}
	return store, nil
}

// Commit persists the cart when the notice reports a change.
func (s *service) Commit(ctx context.Context, store *Store, notice Notice) error {
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "cart store missing")
	}
	if !notice.Changed() {
		return nil
	}
	if err := s.sessions.Save(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart could not be saved")
	}
	if s.metrics != nil {
		s.metrics.IncCartOp(string(notice.Event))
	}
	return nil
}

func (s *service) Discard(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart could not be cleared")
	}
	if s.metrics != nil {
		s.metrics.IncCartOp(string(EventCartCleared))
	}
	return nil
}
