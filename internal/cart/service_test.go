package cart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryStore) CartKey(cartToken string) string {
	return "bh:cart:" + cartToken
}

func line(productID string, price int64, quantity int) Line {
	return Line{
		ProductID: productID,
		Name:      "পাঞ্জাবি",
		Price:     decimal.NewFromInt(price),
		Quantity:  quantity,
	}
}

func TestGet_MissingCartReturnsEmpty(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)

	c, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "t1", c.Token)
	assert.True(t, c.Subtotal().IsZero())
}

func TestAdd_MergesUncustomizedLines(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)
	ctx := context.Background()

	_, err := svc.Add(ctx, "t1", line("p1", 500, 1))
	require.NoError(t, err)
	c, err := svc.Add(ctx, "t1", line("p1", 500, 2))
	require.NoError(t, err)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(1500).Equal(c.Subtotal()))
}

func TestAdd_CustomizedLinesStaySeparate(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)
	ctx := context.Background()

	_, err := svc.Add(ctx, "t1", line("p1", 500, 1))
	require.NoError(t, err)

	custom := line("p1", 500, 1)
	custom.Customization = &flexible.Customization{Instructions: "নাম লিখে দিবেন"}
	c, err := svc.Add(ctx, "t1", custom)
	require.NoError(t, err)

	require.Len(t, c.Lines, 2)
	assert.True(t, c.HasCustomization())
}

func TestAdd_ClampsQuantity(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)

	c, err := svc.Add(context.Background(), "t1", line("p1", 100, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestAdd_RequiresProductID(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)

	_, err := svc.Add(context.Background(), "t1", Line{Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateQuantity(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)
	ctx := context.Background()

	c, err := svc.Add(ctx, "t1", line("p1", 500, 1))
	require.NoError(t, err)
	lineID := c.Lines[0].LineID

	c, err = svc.UpdateQuantity(ctx, "t1", lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	// quantity never drops below one
	c, err = svc.UpdateQuantity(ctx, "t1", lineID, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)

	_, err := svc.UpdateQuantity(context.Background(), "t1", "missing", 2)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRemoveAndClear(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, time.Hour)
	ctx := context.Background()

	c, err := svc.Add(ctx, "t1", line("p1", 500, 1))
	require.NoError(t, err)
	c, err = svc.Add(ctx, "t1", line("p2", 300, 2))
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)

	c, err = svc.Remove(ctx, "t1", c.Lines[0].LineID)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "p2", c.Lines[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "t1"))
	c, err = svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartItemsConversion(t *testing.T) {
	svc := NewService(newMemoryStore(), time.Hour)
	ctx := context.Background()

	c, err := svc.Add(ctx, "t1", line("p1", 750, 2))
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, decimal.NewFromInt(750).Equal(items[0].Price))
}
