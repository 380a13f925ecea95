package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SharingService/internal/api/handlers"
)

// UserIDHeader заголовок с ID уже аутентифицированного пользователя
const UserIDHeader = "X-Sharer-User-Id"

const (
	msgMissingUserID = "отсутствует заголовок " + UserIDHeader
	msgInvalidUserID = "некорректный ID пользователя в заголовке " + UserIDHeader
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth извлекает ID пользователя из заголовка X-Sharer-User-Id и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondBadRequest(w, msgInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID возвращает контекст с ID пользователя
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID возвращает ID пользователя, положенный middleware Auth
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
