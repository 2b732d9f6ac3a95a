package api

import "context"

type contextKey string

const adminContextKey contextKey = "admin_key"

// AdminFromContext returns the masked key of the authenticated admin
func AdminFromContext(ctx context.Context) string {
	admin, ok := ctx.Value(adminContextKey).(string)
	if !ok {
		return ""
	}
	return admin
}

// ContextWithAdmin records the masked key of the authenticated admin
func ContextWithAdmin(ctx context.Context, maskedKey string) context.Context {
	return context.WithValue(ctx, adminContextKey, maskedKey)
}
