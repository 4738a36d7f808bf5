package controllers

import (
	"net/http"
	"time"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/promos"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type promoApplyRequest struct {
	Code     string `json:"code" validate:"required"`
	Subtotal string `json:"subtotal" validate:"required"`
}

// PromoApply previews the discount a code yields on a subtotal.
func PromoApply(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var body promoApplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subtotal, err := parseAmount(body.Subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Apply(r.Context(), body.Code, subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

type promoCreateRequest struct {
	Code            string     `json:"code" validate:"required"`
	DiscountPercent int        `json:"discountPercent" validate:"required,min=1,max=100"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

func AdminPromoCreate(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var body promoCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.Create(r.Context(), body.Code, body.DiscountPercent, body.ExpiresAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

func AdminPromosList(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		codes, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"promoCodes": codes})
	}
}

func AdminPromoDelete(svc promos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "promoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
