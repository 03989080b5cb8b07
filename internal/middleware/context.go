package middleware

import "context"

type contextKey string

const (
	ContextUserID contextKey = "userID"
	ContextRole   contextKey = "role"
)

func GetUserID(ctx context.Context) (int64, bool) {
	val, ok := ctx.Value(ContextUserID).(int64)
	return val, ok
}

func GetRole(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ContextRole).(string)
	return val, ok
}
