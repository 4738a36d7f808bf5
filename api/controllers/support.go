package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/asifmahmud/banglahat-backend/api/responses"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

// SupportWhatsAppLink builds a wa.me deep link pre-filled with the caller's
// tracking id so customers can reach support in one tap.
func SupportWhatsAppLink(cfg config.SupportConfig, logg *logger.Logger) http.HandlerFunc {
	number := sanitizePhoneNumber(cfg.WhatsAppNumber)

	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := strings.TrimSpace(r.URL.Query().Get("trackingId"))

		message := cfg.WhatsAppTemplate
		if strings.Contains(message, "%s") {
			message = fmt.Sprintf(message, trackingID)
		}

		link := fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
		responses.WriteSuccess(w, map[string]string{"url": link})
	}
}

// sanitizePhoneNumber strips everything wa.me rejects, keeping digits only.
func sanitizePhoneNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
