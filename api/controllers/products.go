package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/herbalstore/storefront-backend/api/responses"
	"github.com/herbalstore/storefront-backend/api/validators"
	productsvc "github.com/herbalstore/storefront-backend/internal/products"
	"github.com/herbalstore/storefront-backend/internal/selection"
	pkgerrors "github.com/herbalstore/storefront-backend/pkg/errors"
	"github.com/herbalstore/storefront-backend/pkg/logger"
	"github.com/herbalstore/storefront-backend/pkg/pagination"
)

// ProductList returns one page of the storefront catalog.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Category: validators.ParseQueryString(r, "category", 64),
			Query:    validators.ParseQueryString(r, "q", 100),
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", 256),
		}

		result, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		summary, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// ProductOptions lists the packages a shopper can pick for a product.
func ProductOptions(svc selection.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "selection service unavailable"))
			return
		}

		opts, err := svc.Options(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, opts)
	}
}
