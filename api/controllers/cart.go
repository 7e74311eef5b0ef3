package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/herbalstore/storefront-backend/api/responses"
	"github.com/herbalstore/storefront-backend/api/validators"
	cartsvc "github.com/herbalstore/storefront-backend/internal/cart"
	"github.com/herbalstore/storefront-backend/internal/selection"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
)

type cartItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	TierID       string `json:"tierId,omitempty"`
	Name         string `json:"name"`
	PackQuantity int    `json:"packQuantity"`
	PackUnit     string `json:"packUnit,omitempty"`
	Price        int    `json:"price"`
	Quantity     int    `json:"quantity"`
	LineTotal    int    `json:"lineTotal"`
	Image        string `json:"image,omitempty"`
}

type cartResponse struct {
	SessionID string             `json:"sessionId"`
	Items     []cartItemResponse `json:"items"`
	Total     int                `json:"total"`
	Count     int                `json:"count"`
	Notice    *cartsvc.Notice    `json:"notice,omitempty"`
}

func newCartResponse(store *cartsvc.Store, notice *cartsvc.Notice) cartResponse {
	items := store.Items()
	resp := cartResponse{
		SessionID: store.SessionID(),
		Items:     make([]cartItemResponse, 0, len(items)),
		Total:     store.TotalPrice(),
		Count:     store.Count(),
		Notice:    notice,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, cartItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			TierID:       item.TierID,
			Name:         item.Name(),
			PackQuantity: item.PackQuantity,
			PackUnit:     item.PackUnit,
			Price:        item.Price,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal(),
			Image:        item.Image,
		})
	}
	return resp
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,max=64"`
	TierID    string `json:"tierId" validate:"omitempty,max=64"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,lte=99"`
}

func CartGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := cartsvc.FromContext(r.Context())
		responses.WriteSuccess(w, newCartResponse(store, nil))
	}
}

// CartAddItem adds one line for the chosen product or package.
func CartAddItem(sel selection.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sel == nil || carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := cartsvc.FromContext(r.Context())
		notice, err := sel.AddToCart(r.Context(), store, payload.ProductID, payload.TierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		commitAndRespond(w, r, carts, store, notice, logg)
	}
}

// CartUpdateItem sets a line's quantity. Zero or less removes the line.
func CartUpdateItem(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := cartsvc.FromContext(r.Context())
		notice := store.UpdateQuantity(chi.URLParam(r, "itemId"), *payload.Quantity)
		commitAndRespond(w, r, carts, store, notice, logg)
	}
}

func CartRemoveItem(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		store := cartsvc.FromContext(r.Context())
		notice := store.RemoveItem(chi.URLParam(r, "itemId"))
		commitAndRespond(w, r, carts, store, notice, logg)
	}
}

func CartClear(carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		store := cartsvc.FromContext(r.Context())
		notice := store.Clear()
		commitAndRespond(w, r, carts, store, notice, logg)
	}
}

func commitAndRespond(w http.ResponseWriter, r *http.Request, carts cartsvc.Service, store *cartsvc.Store, notice cartsvc.Notice, logg *logger.Logger) {
	if err := carts.Commit(r.Context(), store, notice); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartResponse(store, &notice))
}
