package controllers

import (
	"net/http"

	"github.com/herbalstore/storefront-backend/api/middleware"
	"github.com/herbalstore/storefront-backend/api/responses"
	"github.com/herbalstore/storefront-backend/api/validators"
	cartsvc "github.com/herbalstore/storefront-backend/internal/cart"
	checkoutsvc "github.com/herbalstore/storefront-backend/internal/checkout"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
)

// CheckoutSubmit places an order from the session cart. Contact fields are
// validated by the checkout service so the error details match the form.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var input checkoutsvc.SubmitInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.RequestID = middleware.RequestIDFromContext(r.Context())

		result, err := svc.Submit(r.Context(), cartsvc.FromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
