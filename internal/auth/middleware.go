package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	apperrors "parkbooking/internal/errors"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireUser rejects requests without a valid Bearer token and stores the
// caller's user id in the request context.
func RequireUser(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				apperrors.WriteError(w, apperrors.ErrUnauthorizedHTTP("Authorization token missing"))
				return
			}
			claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Printf("Invalid or expired JWT: %v", err)
				apperrors.WriteError(w, apperrors.ErrUnauthorizedHTTP("Invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id stored by RequireUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
