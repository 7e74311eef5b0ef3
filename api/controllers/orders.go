package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/herbalstore/storefront-backend/api/responses"
	ordersvc "github.com/herbalstore/storefront-backend/internal/orders"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
)

func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		view, err := svc.Get(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// OrderPayment re-renders the payment instructions for an order.
func OrderPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		instructions, err := svc.Payment(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, instructions)
	}
}
