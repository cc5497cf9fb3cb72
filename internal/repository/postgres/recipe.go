package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/models"
)

type RecipeRepo struct {
	DB DBTX
}

const recipeColumns = `id, user_id, created_at, modified_at, title, description, ingredients, time_minutes, price, link`

const createRecipe = `-- name: CreateRecipe
INSERT INTO recipes (` + recipeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + recipeColumns

func (r *RecipeRepo) CreateRecipe(ctx context.Context, rc models.Recipe) (models.Recipe, error) {
	rows, _ := r.DB.Query(ctx, createRecipe,
		rc.ID, rc.UserID, rc.CreatedAt, rc.ModifiedAt,
		rc.Title, rc.Description, rc.Ingredients, rc.TimeMinutes, rc.Price, rc.Link,
	)
	recipe, err := pgx.CollectOneRow(rows, rowToRecipe)
	if err != nil {
		// Owner may be deleted while its access token is still alive
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return recipe, apperrors.ErrUserNotFound
		}

		return recipe, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}

const getRecipe = `-- name: GetRecipe
SELECT ` + recipeColumns + `
FROM recipes
WHERE id = $1 AND user_id = $2
`

// Get recipe owned by user
// With forUpdate the row stays locked until the surrounding transaction ends
func (r *RecipeRepo) GetRecipe(ctx context.Context, userID uuid.UUID, recipeID string, forUpdate bool) (models.Recipe, error) {
	query := getRecipe
	if forUpdate {
		query += "FOR UPDATE\n"
	}

	rows, _ := r.DB.Query(ctx, query, recipeID, userID)
	return collectRecipe(rows)
}

const listRecipes = `-- name: ListRecipes
SELECT ` + recipeColumns + `
FROM recipes
WHERE user_id = $1
ORDER BY id DESC
`

func (r *RecipeRepo) ListRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	rows, _ := r.DB.Query(ctx, listRecipes, userID)
	recipes, err := pgx.CollectRows(rows, rowToRecipe)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipes, nil
}

const updateRecipe = `-- name: UpdateRecipe
UPDATE recipes
SET modified_at = $3,
    title = $4,
    description = $5,
    ingredients = $6,
    time_minutes = $7,
    price = $8,
    link = $9
WHERE id = $1 AND user_id = $2
RETURNING ` + recipeColumns

// Replace every mutable field of the recipe
func (r *RecipeRepo) UpdateRecipe(ctx context.Context, rc models.Recipe) (models.Recipe, error) {
	rows, _ := r.DB.Query(ctx, updateRecipe,
		rc.ID, rc.UserID, rc.ModifiedAt,
		rc.Title, rc.Description, rc.Ingredients, rc.TimeMinutes, rc.Price, rc.Link,
	)
	return collectRecipe(rows)
}

const deleteRecipe = `-- name: DeleteRecipe
DELETE FROM recipes
WHERE id = $1 AND user_id = $2
`

func (r *RecipeRepo) DeleteRecipe(ctx context.Context, userID uuid.UUID, recipeID string) error {
	tag, err := r.DB.Exec(ctx, deleteRecipe, recipeID, userID)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrRecipeNotFound
	default:
		return nil
	}
}

func collectRecipe(rows pgx.Rows) (models.Recipe, error) {
	recipe, err := pgx.CollectOneRow(rows, rowToRecipe)

	switch {
	case err == nil:
		return recipe, nil
	case errors.Is(err, pgx.ErrNoRows):
		return recipe, apperrors.ErrRecipeNotFound
	default:
		return recipe, fmt.Errorf("db error: %w", err)
	}
}

func rowToRecipe(row pgx.CollectableRow) (models.Recipe, error) {
	var r models.Recipe
	err := row.Scan(
		&r.ID, &r.UserID, &r.CreatedAt, &r.ModifiedAt,
		&r.Title, &r.Description, &r.Ingredients, &r.TimeMinutes, &r.Price, &r.Link,
	)
	return r, err
}
