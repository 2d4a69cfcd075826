package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/appabyss/appabyss/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки session token
// Кладет subject и роли из валидного токена в контекст запроса
func AuthMiddleware(logger *slog.Logger, tokens handlers.TokenConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				http.Error(w, "Unauthorized: missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				http.Error(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateSessionToken(tokens, parts[1])
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}

			// Добавляем данные из токена в контекст
			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, handlers.RolesKey, claims.Roles)

			logger.Debug("User authenticated", "user_id", claims.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole создает middleware, пропускающее только пользователей с ролью role
// Должно стоять после AuthMiddleware
func RequireRole(logger *slog.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles, ok := handlers.RolesFromContext(r.Context())
			if !ok || !slices.Contains(roles, role) {
				userID, _ := handlers.UserIDFromContext(r.Context())
				logger.Warn("Forbidden: missing required role",
					"user_id", userID,
					"role", role,
				)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
