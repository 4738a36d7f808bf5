package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/catalog"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, true)
}

// AdminProductsList returns everything by default; ?activeOnly=true narrows
// to the live storefront set.
func AdminProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, false)
}

func listProducts(svc catalog.Service, logg *logger.Logger, publicOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filter := catalog.ProductFilter{
			ActiveOnly: publicOnly || queryBool(r, "activeOnly"),
			Limit:      queryInt(r, "limit", 0),
			Offset:     queryInt(r, "offset", 0),
		}
		if raw := r.URL.Query().Get("categoryId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoryId"))
				return
			}
			filter.CategoryID = &id
		}

		products, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type productRequest struct {
	Name           string  `json:"name" validate:"required"`
	Description    string  `json:"description"`
	Price          string  `json:"price" validate:"required"`
	ImageURL       string  `json:"imageUrl"`
	CategoryID     *string `json:"categoryId"`
	IsCustomizable bool    `json:"isCustomizable"`
	Active         bool    `json:"active"`
}

func (p productRequest) toInput() (catalog.ProductInput, error) {
	price, err := parseAmount(p.Price)
	if err != nil {
		return catalog.ProductInput{}, err
	}

	input := catalog.ProductInput{
		Name:           p.Name,
		Description:    p.Description,
		Price:          price,
		ImageURL:       p.ImageURL,
		IsCustomizable: p.IsCustomizable,
		Active:         p.Active,
	}
	if p.CategoryID != nil && *p.CategoryID != "" {
		id, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return catalog.ProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoryId")
		}
		input.CategoryID = &id
	}
	return input, nil
}

func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body categoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func AdminCategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func OffersList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listOffers(svc, logg, true)
}

func AdminOffersList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listOffers(svc, logg, false)
}

func listOffers(svc catalog.Service, logg *logger.Logger, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		offers, err := svc.ListOffers(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"offers": offers})
	}
}

type offerRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	ProductID   *string    `json:"productId"`
	Active      bool       `json:"active"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

func (o offerRequest) toInput() (catalog.OfferInput, error) {
	input := catalog.OfferInput{
		Title:       o.Title,
		Description: o.Description,
		ImageURL:    o.ImageURL,
		Active:      o.Active,
		StartsAt:    o.StartsAt,
		EndsAt:      o.EndsAt,
	}
	if o.ProductID != nil && *o.ProductID != "" {
		id, err := uuid.Parse(*o.ProductID)
		if err != nil {
			return catalog.OfferInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid productId")
		}
		input.ProductID = &id
	}
	return input, nil
}

func AdminOfferCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body offerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.CreateOffer(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

func AdminOfferUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body offerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.UpdateOffer(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func AdminOfferDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOffer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
