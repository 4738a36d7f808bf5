package middleware_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asifmahmud/banglahat-backend/api/middleware"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "bh:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func newConfirmRouter(store *fakeIdempotencyStore, calls *int) chi.Router {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	r := chi.NewRouter()
	r.Use(middleware.Idempotency(store, logg))
	r.Post("/api/v1/checkout/{checkoutId}/confirm", func(w http.ResponseWriter, req *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"trackingId":"BH-TEST1234"}}`))
	})
	return r
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	router := newConfirmRouter(store, &calls)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/chk-1/confirm", bytes.NewBufferString(`{}`))
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, calls)

	second := send()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls, "handler must not run twice for the same key")
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	router := newConfirmRouter(store, &calls)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/chk-1/confirm", bytes.NewBufferString(`{"a":1}`))
	first.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/chk-1/confirm", bytes.NewBufferString(`{"a":2}`))
	second.Header.Set("Idempotency-Key", "key-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, second)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_RequiresKeyHeader(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	router := newConfirmRouter(store, &calls)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/chk-1/confirm", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, calls)
}

func TestIdempotency_SkipsUnmatchedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	calls := 0
	r := chi.NewRouter()
	r.Use(middleware.Idempotency(store, logg))
	r.Post("/api/v1/cart/items", func(w http.ResponseWriter, req *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
}
