package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	if value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	return value, nil
}

// queryInt reads an integer query parameter, returning fallback when the
// parameter is absent or unparsable.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryBool(r *http.Request, name string) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

// clientIP extracts the caller's address, preferring the first proxy-reported
// hop over the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
