package flexible

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifmahmud/banglahat-backend/pkg/enums"
)

func TestItemsNativeAndStringEncodedAgree(t *testing.T) {
	native := []LineItem{
		{
			ID:       "p-101",
			Name:     "নকশি কাঁথা",
			Price:    decimal.NewFromInt(750),
			Quantity: 2,
			ImageURL: "https://cdn.example.com/kantha.jpg",
			Customization: &Customization{
				CustomImages: []string{"https://cdn.example.com/custom-1.jpg"},
				Instructions: "নাম লিখে দিবেন",
			},
		},
		{ID: "p-102", Name: "পাঞ্জাবি", Price: decimal.NewFromInt(1200), Quantity: 1},
	}

	asJSON, err := json.Marshal(native)
	require.NoError(t, err)
	asString, err := json.Marshal(string(asJSON))
	require.NoError(t, err)

	fromNative, err := Items(asJSON)
	require.NoError(t, err)
	fromString, err := Items(asString)
	require.NoError(t, err)

	require.Len(t, fromNative, 2)
	assert.Equal(t, fromNative, fromString)
	assert.Equal(t, "p-101", fromNative[0].ID)
	assert.True(t, fromNative[0].Price.Equal(decimal.NewFromInt(750)))
	require.NotNil(t, fromNative[0].Customization)
	assert.Equal(t, "নাম লিখে দিবেন", fromNative[0].Customization.Instructions)
}

func TestItemsClampsQuantity(t *testing.T) {
	items, err := Items(json.RawMessage(`[{"id":"p-1","name":"x","price":"10","quantity":0}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestItemsFailSoft(t *testing.T) {
	items, err := Items(json.RawMessage(`{"not":"an array"}`))
	assert.Error(t, err)
	assert.Empty(t, items)

	items, err = Items(nil)
	assert.NoError(t, err)
	assert.Empty(t, items)

	items, err = Items(json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestImagesMixedShapes(t *testing.T) {
	raw := json.RawMessage(`[
		"https://cdn.example.com/a.jpg",
		{"url":"https://cdn.example.com/b.jpg"},
		{"dataUrl":"data:image/png;base64,AAAA"},
		{"data":"https://cdn.example.com/c.jpg"},
		{"src":"https://cdn.example.com/d.jpg"},
		{"irrelevant":"x"},
		null,
		42
	]`)

	urls, err := Images(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"data:image/png;base64,AAAA",
		"https://cdn.example.com/c.jpg",
		"https://cdn.example.com/d.jpg",
	}, urls)
}

func TestImagesProbePriority(t *testing.T) {
	urls, err := Images(json.RawMessage(`[{"src":"low","url":"high"}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"high"}, urls)
}

func TestImagesStringEncoded(t *testing.T) {
	inner := `["https://cdn.example.com/a.jpg",{"url":"https://cdn.example.com/b.jpg"}]`
	wrapped, err := json.Marshal(inner)
	require.NoError(t, err)

	urls, err := Images(wrapped)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestImagesGarbageFailsSoft(t *testing.T) {
	urls, err := Images(json.RawMessage(`{"oops":true}`))
	assert.Error(t, err)
	assert.Empty(t, urls)
}

func TestPaymentDualShape(t *testing.T) {
	native := json.RawMessage(`{"method":"bkash","paymentNumber":"01812345678","transactionId":"TX9A8B7C","amountPaid":"1580","deliveryFee":80}`)
	info, err := Payment(native)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodBkash, info.Method)
	assert.Equal(t, "TX9A8B7C", info.TransactionID)
	assert.True(t, info.AmountPaid.Equal(decimal.NewFromInt(1580)))
	assert.Equal(t, 80, info.DeliveryFee)

	wrapped, err := json.Marshal(string(native))
	require.NoError(t, err)
	fromString, err := Payment(wrapped)
	require.NoError(t, err)
	assert.Equal(t, info, fromString)
}

func TestPaymentAbsentDefaultsToCOD(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(``)} {
		info, err := Payment(raw)
		require.NoError(t, err)
		assert.Equal(t, enums.PaymentMethodCOD, info.Method)
	}
}

func TestPaymentUnknownMethodFallsBack(t *testing.T) {
	info, err := Payment(json.RawMessage(`{"method":"paypal"}`))
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodCOD, info.Method)
}
