package controllers

import (
	"net/http"

	"github.com/asifmahmud/banglahat-backend/api/middleware"
	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/api/validators"
	"github.com/asifmahmud/banglahat-backend/internal/admin"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func AdminAuthLogin(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var body adminLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body.Email, body.Password, clientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminAuthLogout(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type adminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

func AdminAuthRegister(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		var body adminRegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.CreateAccount(r.Context(), body.Email, body.Name, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}
