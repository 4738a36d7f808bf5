package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/internal/geo"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

func GeoDistricts(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geo service unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"districts": svc.Districts()})
	}
}

func GeoThanas(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geo service unavailable"))
			return
		}

		district := chi.URLParam(r, "district")
		thanas, ok := svc.Thanas(district)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown district"))
			return
		}
		if thanas == nil {
			thanas = []string{}
		}

		responses.WriteSuccess(w, map[string]any{
			"district": district,
			"thanas":   thanas,
			"required": svc.RequiresThana(district),
		})
	}
}

// GeoDeliveryFee quotes the delivery charge for a district and subtotal so
// the storefront can show it before checkout starts.
func GeoDeliveryFee(svc geo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "geo service unavailable"))
			return
		}

		district := r.URL.Query().Get("district")
		subtotal := decimal.Zero
		if raw := r.URL.Query().Get("subtotal"); raw != "" {
			parsed, err := parseAmount(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			subtotal = parsed
		}

		responses.WriteSuccess(w, map[string]any{
			"district":    district,
			"deliveryFee": svc.DeliveryFee(district, subtotal),
		})
	}
}
