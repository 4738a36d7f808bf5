package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/api/middleware"
	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/checkout"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type checkoutStartRequest struct {
	IsCustomOrder        bool    `json:"isCustomOrder"`
	AdvancePaymentAmount *string `json:"advancePaymentAmount"`
}

func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutStartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var advance *decimal.Decimal
		if body.AdvancePaymentAmount != nil {
			parsed, err := parseAmount(*body.AdvancePaymentAmount)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			advance = &parsed
		}

		view, err := svc.Start(r.Context(), middleware.CartTokenFromContext(r.Context()), body.IsCustomOrder, advance)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func CheckoutFetch(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		view, err := fetchOwnedSession(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CheckoutSubmitStep(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		if _, err := fetchOwnedSession(r, svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := strconv.Atoi(chi.URLParam(r, "step"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid step"))
			return
		}

		var input checkout.StepInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SubmitStep(r.Context(), chi.URLParam(r, "checkoutId"), step, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CheckoutBack(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		if _, err := fetchOwnedSession(r, svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Back(r.Context(), chi.URLParam(r, "checkoutId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CheckoutConfirm(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		if _, err := fetchOwnedSession(r, svc); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Confirm(r.Context(), chi.URLParam(r, "checkoutId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// fetchOwnedSession loads the session and rejects callers whose cart token
// does not match the one the session was opened for.
func fetchOwnedSession(r *http.Request, svc checkout.Service) (*checkout.View, error) {
	view, err := svc.Get(r.Context(), chi.URLParam(r, "checkoutId"))
	if err != nil {
		return nil, err
	}
	if view.Session.CartToken != middleware.CartTokenFromContext(r.Context()) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "checkout session belongs to another cart")
	}
	return view, nil
}
