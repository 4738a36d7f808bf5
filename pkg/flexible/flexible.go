// Package flexible decodes order fields that historically arrived either as
// native JSON structures or as JSON-encoded strings. Every reader of
// persisted orders (success views, admin panels, tracking) must go through
// this package instead of ad hoc parsing.
package flexible

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/enums"
)

// LineItem is the display-ready shape of one ordered product.
type LineItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Customization *Customization  `json:"customization,omitempty"`
}

// Customization carries the free-form payload attached to a cart line.
type Customization struct {
	CustomImages []string `json:"customImages,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// PaymentInfo is the payment proof block stored on an order.
type PaymentInfo struct {
	Method        enums.PaymentMethod `json:"method"`
	PaymentNumber string              `json:"paymentNumber,omitempty"`
	TransactionID string              `json:"transactionId,omitempty"`
	AmountPaid    decimal.Decimal     `json:"amountPaid"`
	DeliveryFee   int                 `json:"deliveryFee"`
}

// unwrapDepth bounds how many layers of string-encoding are peeled off.
// The source system double-encoded at most once.
const unwrapDepth = 2

// unwrap normalizes raw to the innermost JSON value: if raw is a JSON string
// whose content is itself JSON, the content is returned.
func unwrap(raw []byte) []byte {
	data := bytes.TrimSpace(raw)
	for i := 0; i < unwrapDepth; i++ {
		if len(data) == 0 || data[0] != '"' {
			return data
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return data
		}
		trimmed := bytes.TrimSpace([]byte(inner))
		if len(trimmed) == 0 {
			return nil
		}
		switch trimmed[0] {
		case '[', '{':
			data = trimmed
		default:
			return data
		}
	}
	return data
}

func isEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Items decodes the order's line items from either shape. A decode failure
// returns the empty list alongside the error so callers can log and render.
func Items(raw json.RawMessage) ([]LineItem, error) {
	if isEmpty(raw) {
		return []LineItem{}, nil
	}
	data := unwrap(raw)
	if isEmpty(data) {
		return []LineItem{}, nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return []LineItem{}, fmt.Errorf("decode order items: %w", err)
	}
	out := items[:0]
	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out, nil
}

// Images decodes the customization image list. Elements may be bare URL
// strings or objects exposing url/dataUrl/data/src; that order is the probe
// priority. Unusable elements are skipped, never fatal. The returned error
// reports a wholly undecodable field, with an empty list still usable.
func Images(raw json.RawMessage) ([]string, error) {
	if isEmpty(raw) {
		return []string{}, nil
	}
	data := unwrap(raw)
	if isEmpty(data) {
		return []string{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		// A single bare string is tolerated as a one-element list.
		var single string
		if strErr := json.Unmarshal(data, &single); strErr == nil && single != "" {
			return []string{single}, nil
		}
		return []string{}, fmt.Errorf("decode custom images: %w", err)
	}

	urls := make([]string, 0, len(elements))
	for _, element := range elements {
		if url, ok := imageURL(element); ok {
			urls = append(urls, url)
		}
	}
	return urls, nil
}

var imageURLKeys = []string{"url", "dataUrl", "data", "src"}

func imageURL(element json.RawMessage) (string, bool) {
	if isEmpty(element) {
		return "", false
	}

	var direct string
	if err := json.Unmarshal(element, &direct); err == nil {
		return direct, direct != ""
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(element, &object); err != nil {
		return "", false
	}
	for _, key := range imageURLKeys {
		value, ok := object[key]
		if !ok {
			continue
		}
		var url string
		if err := json.Unmarshal(value, &url); err == nil && url != "" {
			return url, true
		}
	}
	return "", false
}

// Payment decodes the payment proof block. A missing block is valid and
// defaults to cash-on-delivery display.
func Payment(raw json.RawMessage) (PaymentInfo, error) {
	fallback := PaymentInfo{Method: enums.PaymentMethodCOD}
	if isEmpty(raw) {
		return fallback, nil
	}
	data := unwrap(raw)
	if isEmpty(data) {
		return fallback, nil
	}
	var info PaymentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fallback, fmt.Errorf("decode payment info: %w", err)
	}
	if info.Method == "" || !info.Method.IsValid() {
		info.Method = enums.PaymentMethodCOD
	}
	return info, nil
}
