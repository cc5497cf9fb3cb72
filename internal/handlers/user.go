package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/handlers/render"
	"github.com/nkiryanov/tastybites/internal/handlers/userctx"
	"github.com/nkiryanov/tastybites/internal/logger"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/service/user"
)

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Render user service error
// The token may outlive the account, so missing user is reported as not found
func userError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.ServiceError(w, "User not found", http.StatusNotFound)
	default:
		l.Error("User request failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func handleUserMe(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		u, err := userService.GetUserByID(r.Context(), principal.UserID)
		if err != nil {
			userError(w, l, err)
			return
		}

		render.JSON(w, newUserResponse(u))
	})
}

func handleUserUpdate(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Name     *string `json:"name" validate:"omitempty,max=255"`
		Password *string `json:"password" validate:"omitempty,min=5"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		u, err := userService.UpdateUser(r.Context(), principal.UserID, user.UpdateUserParams{
			Name:     data.Name,
			Password: data.Password,
		})
		if err != nil {
			userError(w, l, err)
			return
		}

		render.JSON(w, newUserResponse(u))
	})
}

func handleUserDelete(userService userService, authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		if err := userService.DeleteUser(r.Context(), principal.UserID); err != nil {
			userError(w, l, err)
			return
		}

		authService.ClearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
	})
}
