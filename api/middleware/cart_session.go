package middleware

import (
	"net/http"
	"strings"

	"github.com/asifmahmud/banglahat-backend/internal/cart"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the visitor's cart token from the X-Cart-Session
// header, issuing a fresh one when absent. The token is echoed back on every
// response so the storefront can persist it.
func CartSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if token == "" {
				token = cart.NewToken()
			}
			w.Header().Set(cartSessionHeader, token)
			next.ServeHTTP(w, r.WithContext(WithCartToken(r.Context(), token)))
		})
	}
}
