package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/herbalstore/storefront-backend/pkg/db/models"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
)

type orderReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Service exposes order confirmation and payment-reference reads.
type Service interface {
	Get(ctx context.Context, id string) (*OrderView, error)
	Payment(ctx context.Context, id string) (*PaymentInstructions, error)
}

type service struct {
	repo         orderReader
	instructions *InstructionBuilder
}

func NewService(repo orderReader, instructions *InstructionBuilder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if instructions == nil {
		return nil, fmt.Errorf("payment instruction builder required")
	}
	return &service{repo: repo, instructions: instructions}, nil
}

func (s *service) Get(ctx context.Context, id string) (*OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderView(order), nil
}

// Payment re-renders the instructions shown right after checkout.
func (s *service) Payment(ctx context.Context, id string) (*PaymentInstructions, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.instructions.Build(order)
}

func (s *service) load(ctx context.Context, raw string) (*models.Order, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
