package controllers

import (
	"net/http"
	"strings"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/orders"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type adminOrderListResponse struct {
	Orders []orders.Detail `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params := orders.ListParams{
			Phone:  strings.TrimSpace(r.URL.Query().Get("phone")),
			Limit:  queryInt(r, "limit", 0),
			Offset: queryInt(r, "offset", 0),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			params.Status = &status
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		details := make([]orders.Detail, 0, len(result.Orders))
		for _, order := range result.Orders {
			details = append(details, orders.NewDetail(r.Context(), logg, order))
		}

		responses.WriteSuccess(w, adminOrderListResponse{
			Orders: details,
			Total:  result.Total,
			Limit:  params.Limit,
			Offset: params.Offset,
		})
	}
}

func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewDetail(r.Context(), logg, *order))
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderSetStatus applies a status change. Both the bare order PATCH and
// the /status variant route here; older admin builds still call the former.
func AdminOrderSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetStatus(r.Context(), id, enums.OrderStatus(strings.TrimSpace(body.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.NewDetail(r.Context(), logg, *order))
	}
}
