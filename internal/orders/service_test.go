package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	"github.com/asifmahmud/banglahat-backend/pkg/enums"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
	"github.com/asifmahmud/banglahat-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, Repository, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}))

	repo := NewRepository(conn)
	return NewService(repo, nil, nil), repo, conn
}

func createInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName: "রাহিম উদ্দিন",
		Phone:        "01712345678",
		District:     "ঢাকা",
		Thana:        "গুলশান",
		Address:      "বাড়ি ১২, রোড ৫, গুলশান ১",
		Items: []flexible.LineItem{
			{ID: "p1", Name: "পাঞ্জাবি", Price: decimal.NewFromInt(1500), Quantity: 1},
		},
		Subtotal:    decimal.NewFromInt(1500),
		DeliveryFee: 80,
		Total:       decimal.NewFromInt(1580),
		Payment: &flexible.PaymentInfo{
			Method:        enums.PaymentMethodBkash,
			PaymentNumber: "01898765432",
			TransactionID: "9HX72KQ1LM",
			AmountPaid:    decimal.NewFromInt(1580),
			DeliveryFee:   80,
		},
	}
}

func TestCreate_IssuesTrackingIDAndPendingStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	order, err := svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.TrackingID, "BH-"))
	assert.Greater(t, len(order.TrackingID), len("BH-"))
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.NotEqual(t, uuid.Nil, order.ID)
}

func TestCreate_RequiresItems(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := createInput()
	input.Items = nil
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreate_RoundTripsThroughDetail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	stored, err := svc.GetByTrackingID(ctx, created.TrackingID)
	require.NoError(t, err)

	detail := NewDetail(ctx, nil, *stored)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "পাঞ্জাবি", detail.Items[0].Name)
	assert.Equal(t, 1, detail.Items[0].Quantity)
	assert.Equal(t, enums.PaymentMethodBkash, detail.Payment.Method)
	assert.Equal(t, 80, detail.DeliveryFee)
	assert.True(t, decimal.NewFromInt(1580).Equal(detail.Total))
}

func TestNewDetail_LegacyStringEncodedPayloads(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()

	// historical rows carry the payload columns as JSON-encoded strings
	order := &models.Order{
		TrackingID:   NewTrackingID(),
		CustomerName: "করিম",
		Phone:        "01812345678",
		District:     "চট্টগ্রাম",
		Address:      "আন্দরকিল্লা, চট্টগ্রাম",
		Items:        types.RawJSON(`"[{\"id\":\"p9\",\"name\":\"শাড়ি\",\"price\":2200,\"quantity\":0}]"`),
		Subtotal:     decimal.NewFromInt(2200),
		DeliveryFee:  120,
		Total:        decimal.NewFromInt(2320),
		PaymentInfo:  types.RawJSON(`"{\"method\":\"nagad\",\"amountPaid\":2320}"`),
		CustomImages: types.RawJSON(`"[{\"dataUrl\":\"data:image/png;base64,AAA\"},\"https://cdn.example.com/a.jpg\"]"`),
		Status:       enums.OrderStatusPending,
	}
	require.NoError(t, repo.Create(ctx, order))

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)

	detail := NewDetail(ctx, nil, *stored)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "শাড়ি", detail.Items[0].Name)
	assert.Equal(t, 1, detail.Items[0].Quantity, "zero quantity clamps to one")
	assert.Equal(t, enums.PaymentMethodNagad, detail.Payment.Method)
	assert.Equal(t, []string{"data:image/png;base64,AAA", "https://cdn.example.com/a.jpg"}, detail.CustomImages)
}

func TestNewDetail_MalformedPayloadsRenderEmpty(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()

	order := &models.Order{
		TrackingID:   NewTrackingID(),
		CustomerName: "জাহিদ",
		Phone:        "01912345678",
		District:     "সিলেট",
		Address:      "জিন্দাবাজার, সিলেট",
		Items:        types.RawJSON(`{"broken":`),
		Subtotal:     decimal.NewFromInt(900),
		DeliveryFee:  120,
		Total:        decimal.NewFromInt(1020),
		Status:       enums.OrderStatusPending,
	}
	require.NoError(t, repo.Create(ctx, order))

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)

	detail := NewDetail(ctx, nil, *stored)
	assert.Empty(t, detail.Items)
	assert.Equal(t, enums.PaymentMethodCOD, detail.Payment.Method)
	assert.Equal(t, "জাহিদ", detail.CustomerName)
}

func TestGetByTrackingID_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetByTrackingID(context.Background(), "BH-MISSING")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestList_FilterAndPaging(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, createInput())
		require.NoError(t, err)
	}
	shipped, err := svc.Create(ctx, createInput())
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, shipped.ID, enums.OrderStatusShipped)
	require.NoError(t, err)

	all, err := svc.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Total)

	status := enums.OrderStatusShipped
	filtered, err := svc.List(ctx, ListParams{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.Total)
	require.Len(t, filtered.Orders, 1)
	assert.Equal(t, shipped.ID, filtered.Orders[0].ID)

	page, err := svc.List(ctx, ListParams{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Orders, 2)
}

func TestSetStatus_OpenTransitionGraph(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	// forward moves
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		updated, err := svc.SetStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// backwards out of a terminal status is allowed
	updated, err := svc.SetStatus(ctx, order.ID, enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, updated.Status)

	// cancelled from anywhere
	updated, err = svc.SetStatus(ctx, order.ID, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, updated.Status)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, createInput())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, order.ID, enums.OrderStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSetStatus_MissingOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), enums.OrderStatusShipped)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestNewTrackingID_Format(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewTrackingID()
		assert.True(t, strings.HasPrefix(id, "BH-"))
		assert.NotContains(t, id, "=")
		_, dup := seen[id]
		assert.False(t, dup, "tracking ids must not repeat")
		seen[id] = struct{}{}
	}
}
