package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/tastybites/internal/models"
)

// Storage gives access to every repository bound to the same connection
type Storage interface {
	User() UserRepo
	Recipe() RecipeRepo

	// Run fn in transaction: commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, email string, name string, hashedPassword string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Update name and password hash, nil fields stay untouched
	UpdateUser(ctx context.Context, userID uuid.UUID, name *string, hashedPassword *string) (models.User, error)

	// Delete user with all owned recipes
	// If user not found must return apperrors.ErrUserNotFound
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// Recipe repository interface
// Every method is scoped by owner: recipe of other user is reported as apperrors.ErrRecipeNotFound
type RecipeRepo interface {
	CreateRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	GetRecipe(ctx context.Context, userID uuid.UUID, recipeID string, forUpdate bool) (models.Recipe, error)

	// List user recipes, newest first
	ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)

	UpdateRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID uuid.UUID, recipeID string) error
}

// Token denylist
// Revoked token id has to be kept for ttl, the rest of the token lifetime
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
