package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/handlers/render"
	"github.com/nkiryanov/tastybites/internal/logger"
)

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email,max=255"`
		Password string `json:"password" validate:"required,min=5"`
		Name     string `json:"name" validate:"max=255"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Register(r.Context(), data.Email, data.Password, data.Name)
		switch {
		case err == nil:
			authService.SetRefreshCookie(w, pair.Refresh)
			render.JSONWithStatus(w, tokenResponse{Token: pair.Access.Value, Message: "User registered successfully"}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User with this email already exists", http.StatusConflict)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Login(r.Context(), data.Email, data.Password)
		switch {
		case err == nil:
			authService.SetRefreshCookie(w, pair.Refresh)
			render.JSON(w, tokenResponse{Token: pair.Access.Value, Message: "User logged in successfully"})
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.GetRefreshString(r)
		if err != nil {
			render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		access, err := authService.Refresh(r.Context(), refresh)
		switch {
		case err == nil:
			render.JSON(w, tokenResponse{Token: access.Value, Message: "Token refreshed successfully"})
		case errors.Is(err, apperrors.ErrExpiredToken):
			render.ServiceError(w, "Refresh token has expired, login again", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrInvalidSignature), errors.Is(err, apperrors.ErrTokenRevoked):
			render.ServiceError(w, "Refresh token is invalid", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusForbidden)
		default:
			l.Error("Failed to refresh token", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleTokenVerify(authService authService) http.Handler {
	type response struct {
		Valid bool `json:"valid"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		valid := authService.IsValid(r.Context(), r.Header.Get("Authorization"))
		render.JSON(w, response{Valid: valid})
	})
}

func handleLogout(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Refresh cookie is optional here: access token alone is enough to logout
		refresh, _ := authService.GetRefreshString(r)

		err := authService.Logout(r.Context(), r.Header.Get("Authorization"), refresh)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrRevocationDisabled):
			l.Debug("Token revocation disabled, only refresh cookie cleared")
		case errors.Is(err, apperrors.ErrExpiredToken), errors.Is(err, apperrors.ErrInvalidSignature):
			// Token expired after auth middleware passed it: nothing left to revoke
			l.Debug("Access token no longer valid, only refresh cookie cleared", "error", err)
		default:
			l.Error("Failed to logout", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		authService.ClearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
	})
}
