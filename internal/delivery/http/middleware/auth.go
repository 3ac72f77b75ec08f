package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// SetUser returns a context carrying the authenticated user. Used by auth middleware.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user from the context, if present.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// RequireAuth returns a wrapper that resolves the Bearer access token to an active user and
// stores it in the request context. If the token is missing or invalid, it responds with 401
// and does not call next.
func RequireAuth(auth domain.AuthService, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Authentication credentials were not provided.")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(header[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidToken) {
					logger.ErrorContext(r.Context(), "authenticate failed", "path", r.URL.Path, "err", err)
					h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
					return
				}
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Given token not valid for any token type")
				return
			}
			r = r.WithContext(SetUser(r.Context(), user))
			next(w, r)
		}
	}
}

// RequireAdminOrHR rejects callers that are not superusers or staff with 403. It must run
// after RequireAuth and before the handler reads the body.
func RequireAdminOrHR(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !domain.IsAdminOrHR(user) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "You do not have permission to perform this action.")
			return
		}
		next(w, r)
	}
}
