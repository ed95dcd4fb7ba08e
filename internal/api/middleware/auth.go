package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/futig/docqa-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type ctxKey int

const userIDKey ctxKey = iota

// Authenticator resolves a bearer token to a user id
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
func RequireAuth(auth Authenticator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Error(r.Context(), w, http.StatusUnauthorized, "Missing token", nil)
				return
			}

			userID, err := auth.Authenticate(strings.TrimSpace(token))
			if err != nil {
				response.Error(r.Context(), w, http.StatusUnauthorized, "Invalid or expired token", err)
				return
			}

			ctx := logger.AddFields(r.Context(), zap.String("user_id", userID))
			next.ServeHTTP(w, r.WithContext(WithUserID(ctx, userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id, or "" outside RequireAuth
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
