package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SLN-BookingService/internal/api/handlers"
)

// Идентификация выполняется внешним шлюзом, сервис доверяет заголовкам
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	roleStaff = "staff"
)

type ctxKey string

const (
	userIDKey  ctxKey = "userID"
	isStaffKey ctxKey = "isStaff"
)

// Auth извлекает идентификацию пользователя из заголовков
// Запросы без корректного X-User-ID отклоняются
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(headerUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, isStaffKey, r.Header.Get(headerUserRole) == roleStaff)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsStaff возвращает true, если запрос пришел от сотрудника салона
func IsStaff(ctx context.Context) bool {
	isStaff, ok := ctx.Value(isStaffKey).(bool)
	return ok && isStaff
}
