package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"

	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin = "admin"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgForbidden     = "доступ запрещен"
)

// Auth требует X-User-ID, который проставляет шлюз после проверки сессии
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, r.Header.Get(HeaderUserRole))))
	})
}

// OptionalAuth кладёт пользователя в контекст, если заголовок есть
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := strings.TrimSpace(r.Header.Get(HeaderUserID)); userID != "" {
			r = r.WithContext(withIdentity(r.Context(), userID, r.Header.Get(HeaderUserRole)))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin пропускает только роль admin, применяется после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID извлекает ID аккаунта из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// IsAdmin роль admin у текущего пользователя
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(userRoleKey).(string)
	return strings.EqualFold(role, RoleAdmin)
}

func withIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, strings.TrimSpace(role))
}
