package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/handlers/render"
	"github.com/nkiryanov/tastybites/internal/handlers/userctx"
	"github.com/nkiryanov/tastybites/internal/models"
)

type authService interface {
	Authenticate(ctx context.Context, header string) (models.Principal, error)
}

type errorLogger interface {
	Error(msg string, args ...any)
}

// Reject request without valid access token, store principal in request context otherwise
func AuthMiddleware(as authService, l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := as.Authenticate(r.Context(), r.Header.Get("Authorization"))

			switch {
			case err == nil:
				ctx := userctx.New(r.Context(), principal)
				next.ServeHTTP(w, r.WithContext(ctx))
			case errors.Is(err, apperrors.ErrMissingCredentials):
				render.ServiceError(w, "Unauthenticated", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrExpiredToken):
				render.ServiceError(w, "Unauthenticated, token has expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrInvalidSignature), errors.Is(err, apperrors.ErrTokenRevoked):
				render.ServiceError(w, "Unauthenticated, token is invalid", http.StatusUnauthorized)
			default:
				l.Error("Failed to authenticate request", "error", err)
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
		})
	}
}
