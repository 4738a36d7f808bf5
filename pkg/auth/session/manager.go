package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/asifmahmud/banglahat-backend/pkg/config"
	redisclient "github.com/asifmahmud/banglahat-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AdminSessionKey(sessionID string) string
}

// Manager tracks which admin JWTs still map to a live back-office session,
// so logout revokes a token before its expiry.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Open records a live session for the provided session id (the JWT jti).
func (m *Manager) Open(ctx context.Context, sessionID, adminID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Set(ctx, m.keyer.AdminSessionKey(sessionID), adminID, m.ttl)
}

// Revoke deletes the session tied to the identifier.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.AdminSessionKey(sessionID))
}

// HasSession reports whether the provided session id is still live.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AdminSessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces a stable identifier used as the JWT jti/Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
