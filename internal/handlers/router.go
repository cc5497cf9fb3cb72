package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/handlers/middleware"
	"github.com/nkiryanov/tastybites/internal/logger"
	"github.com/nkiryanov/tastybites/internal/metrics"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/service/recipe"
	"github.com/nkiryanov/tastybites/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// Metrics are optional: without them /metrics is not served
func NewRouter(
	authService authService,
	userService userService,
	recipeService recipeService,
	m *metrics.Metrics,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService, logger)

	apiuser := http.NewServeMux()

	apiuser.Handle("POST /register", handleRegister(authService, logger))
	apiuser.Handle("POST /login", handleLogin(authService, logger))
	apiuser.Handle("POST /refresh", handleTokenRefresh(authService, logger))
	apiuser.Handle("GET /token/verify", handleTokenVerify(authService))
	apiuser.Handle("POST /logout", withAuth(handleLogout(authService, logger)))

	apiuser.Handle("GET /me", withAuth(handleUserMe(userService, logger)))
	apiuser.Handle("PATCH /me", withAuth(handleUserUpdate(userService, logger)))
	apiuser.Handle("DELETE /me", withAuth(handleUserDelete(userService, authService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/user/", http.StripPrefix("/api/user", apiuser))

	root.Handle("GET /api/recipes", withAuth(handleListRecipes(recipeService, logger)))
	root.Handle("POST /api/recipes", withAuth(handleCreateRecipe(recipeService, logger)))
	root.Handle("GET /api/recipes/{id}", withAuth(handleGetRecipe(recipeService, logger)))
	root.Handle("PUT /api/recipes/{id}", withAuth(handleUpdateRecipe(recipeService, logger)))
	root.Handle("PATCH /api/recipes/{id}", withAuth(handlePatchRecipe(recipeService, logger)))
	root.Handle("DELETE /api/recipes/{id}", withAuth(handleDeleteRecipe(recipeService, logger)))

	mds := []func(http.Handler) http.Handler{middleware.LoggerMiddleware(logger)}
	if m != nil {
		root.Handle("GET /metrics", m.Handler())
		mds = append(mds, middleware.MetricsMiddleware(m))
	}

	return chain(root, mds...)
}

type authService interface {
	// Register user with email and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, email string, password string, name string) (models.TokenPair, error)

	// Login user with email and password
	// Has to return apperrors.ErrInvalidCredentials if user not found or password is wrong
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Exchange refresh token to new access token
	// Has to return apperrors.ErrExpiredToken, apperrors.ErrInvalidSignature, apperrors.ErrTokenRevoked
	// or apperrors.ErrUserNotFound
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Revoke tokens. Has to return apperrors.ErrRevocationDisabled if revocation is not configured
	Logout(ctx context.Context, header string, refresh string) error

	// Resolve authorization header to principal
	Authenticate(ctx context.Context, header string) (models.Principal, error)

	// Same as Authenticate but user has to exist too
	IsValid(ctx context.Context, header string) bool

	// Refresh token cookie management
	SetRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken)
	ClearRefreshCookie(w http.ResponseWriter)
	GetRefreshString(r *http.Request) (string, error)
}

type userService interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, params user.UpdateUserParams) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type recipeService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Create(ctx context.Context, userID uuid.UUID, params recipe.RecipeParams) (models.Recipe, error)
	Get(ctx context.Context, userID uuid.UUID, recipeID string) (models.Recipe, error)
	Update(ctx context.Context, userID uuid.UUID, recipeID string, params recipe.RecipeParams) (models.Recipe, error)
	Patch(ctx context.Context, userID uuid.UUID, recipeID string, params recipe.PatchRecipeParams) (models.Recipe, error)
	Delete(ctx context.Context, userID uuid.UUID, recipeID string) error
}
