package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	pkgAuth "github.com/asifmahmud/banglahat-backend/pkg/auth"
	"github.com/asifmahmud/banglahat-backend/pkg/auth/session"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

// AdminAuth validates a bearer token, checks the session is still live and
// seeds the request context with the admin identity.
func AdminAuth(cfg config.JWTConfig, checker session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					// logged out or expired before the JWT did
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxAdminID, claims.AdminID.String())
			ctx = context.WithValue(ctx, ctxSessionID, claims.ID)

			if logg != nil {
				ctx = logg.WithAdminID(ctx, claims.AdminID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
