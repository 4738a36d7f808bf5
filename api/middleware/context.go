package middleware

import "context"

type contextKey string

const (
	ctxAdminID   contextKey = "admin_id"
	ctxSessionID contextKey = "session_id"
	ctxCartToken contextKey = "cart_token"
)

func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartToken).(string); ok {
		return v
	}
	return ""
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}

// WithCartToken injects the visitor's cart token for downstream handlers.
func WithCartToken(ctx context.Context, cartToken string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartToken, cartToken)
}
