package controllers

import (
	"context"
	"net/http"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports ready only when both backing stores answer.
func HealthReady(database, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"database": "ok", "cache": "ok"}

		if database == nil {
			checks["database"] = "unconfigured"
		} else if err := database.Ping(r.Context()); err != nil {
			checks["database"] = "down"
		}
		if cache == nil {
			checks["cache"] = "unconfigured"
		} else if err := cache.Ping(r.Context()); err != nil {
			checks["cache"] = "down"
		}

		for _, state := range checks {
			if state != "ok" {
				err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").WithDetails(checks)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, checks)
	}
}
