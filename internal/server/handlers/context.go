package handlers

import "context"

// contextKey — приватный тип ключей контекста, чтобы избежать коллизий
type contextKey string

// Ключи контекста, заполняются auth middleware из валидного session token
const (
	// UserIDKey — ID аутентифицированного пользователя
	UserIDKey contextKey = "user_id"
	// RolesKey — роли аутентифицированного пользователя
	RolesKey contextKey = "roles"
)

// UserIDFromContext возвращает ID аутентифицированного пользователя
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// RolesFromContext возвращает роли аутентифицированного пользователя
func RolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(RolesKey).([]string)
	return roles, ok
}
