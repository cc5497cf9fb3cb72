package auth

import (
	"net/http"
	"time"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/models"
)

// Set refresh token cookie, it lives as long as the token
func (s *AuthService) SetRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken) {
	maxAge := refresh.ExpiresAt.Sub(s.now()).Round(time.Second)

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    refresh.Value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *AuthService) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Get refresh token from request cookie
// Return apperrors.ErrMissingCredentials if there is no one
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrMissingCredentials
	}

	return cookie.Value, nil
}
