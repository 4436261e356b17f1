package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-FieldService/internal/api/handlers"
)

type ctxKey string

const (
	userIDKey  ctxKey = "userID"
	isAdminKey ctxKey = "isAdmin"

	// HeaderUserID заголовок с ID аутентифицированного пользователя
	// Выставляется API gateway после проверки токена
	HeaderUserID = "X-User-ID"
	// HeaderUserRole заголовок с ролью пользователя
	HeaderUserRole = "X-User-Role"

	roleAdmin = "admin"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
)

// Auth middleware требует валидный X-User-ID и кладёт его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, r)))
	})
}

// OptionalAuth middleware кладёт X-User-ID в контекст, если заголовок
// присутствует и валиден; запросы без заголовка проходят как гостевые
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), userID, r)))
	})
}

func withIdentity(ctx context.Context, userID int64, r *http.Request) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	if r.Header.Get(HeaderUserRole) == roleAdmin {
		ctx = context.WithValue(ctx, isAdminKey, true)
	}
	return ctx
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin возвращает true, если запрос выполнен от имени администратора
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(isAdminKey).(bool)
	return ok && isAdmin
}
