package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/asifmahmud/banglahat-backend/api/middleware"
	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/cart"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type cartView struct {
	Token     string      `json:"token"`
	Lines     []cart.Line `json:"lines"`
	Subtotal  string      `json:"subtotal"`
	ItemCount int         `json:"itemCount"`

	// HasCustomization drives the storefront's custom-order checkout prompt.
	HasCustomization bool `json:"hasCustomization"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func newCartView(c *cart.Cart) cartView {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartView{
		Token:            c.Token,
		Lines:            lines,
		Subtotal:         c.Subtotal().String(),
		ItemCount:        c.ItemCount(),
		HasCustomization: c.HasCustomization(),
		UpdatedAt:        c.UpdatedAt,
	}
}

func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		current, err := svc.Get(r.Context(), middleware.CartTokenFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(current))
	}
}

type cartAddItemRequest struct {
	ProductID     string                  `json:"productId" validate:"required"`
	Name          string                  `json:"name" validate:"required"`
	Price         string                  `json:"price" validate:"required"`
	Quantity      int                     `json:"quantity"`
	ImageURL      string                  `json:"imageUrl"`
	Customization *flexible.Customization `json:"customization"`
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body cartAddItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := parseAmount(body.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Add(r.Context(), middleware.CartTokenFromContext(r.Context()), cart.Line{
			ProductID:     body.ProductID,
			Name:          body.Name,
			Price:         price,
			Quantity:      body.Quantity,
			ImageURL:      body.ImageURL,
			Customization: body.Customization,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(updated))
	}
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := chi.URLParam(r, "lineId")
		updated, err := svc.UpdateQuantity(r.Context(), middleware.CartTokenFromContext(r.Context()), lineID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(updated))
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		lineID := chi.URLParam(r, "lineId")
		updated, err := svc.Remove(r.Context(), middleware.CartTokenFromContext(r.Context()), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(updated))
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if err := svc.Clear(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(&cart.Cart{Token: token}))
	}
}
