package recipe

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/ids"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/repository"
)

// Price column is numeric(8,2)
var maxPrice = decimal.New(1_000_000, 0)

// Time column is integer
const maxTimeMinutes = math.MaxInt32

// Recipe fields the owner controls
type RecipeParams struct {
	Title       string
	Description string
	Ingredients string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
}

// Partial update, nil fields stay untouched
type PatchRecipeParams struct {
	Title       *string
	Description *string
	Ingredients *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
}

type RecipeService struct {
	storage repository.Storage
	now     func() time.Time
}

func NewService(storage repository.Storage, now func() time.Time) *RecipeService {
	if now == nil {
		now = time.Now
	}

	return &RecipeService{
		storage: storage,
		now:     now,
	}
}

func (s *RecipeService) List(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	return s.storage.Recipe().ListRecipes(ctx, userID)
}

func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, params RecipeParams) (models.Recipe, error) {
	now := s.now().UTC()

	id, err := ids.NewULID(now)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("can't generate recipe id. Err: %w", err)
	}

	recipe := models.Recipe{
		ID:         id,
		UserID:     userID,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	apply(&recipe, params)

	if err := validate(recipe); err != nil {
		return models.Recipe{}, err
	}

	return s.storage.Recipe().CreateRecipe(ctx, recipe)
}

func (s *RecipeService) Get(ctx context.Context, userID uuid.UUID, recipeID string) (models.Recipe, error) {
	return s.storage.Recipe().GetRecipe(ctx, userID, recipeID, false)
}

// Replace every owner controlled field
func (s *RecipeService) Update(ctx context.Context, userID uuid.UUID, recipeID string, params RecipeParams) (models.Recipe, error) {
	recipe := models.Recipe{
		ID:         recipeID,
		UserID:     userID,
		ModifiedAt: s.now().UTC(),
	}
	apply(&recipe, params)

	if err := validate(recipe); err != nil {
		return models.Recipe{}, err
	}

	return s.storage.Recipe().UpdateRecipe(ctx, recipe)
}

// Update only provided fields
// Recipe row is locked between read and write so concurrent patches don't overwrite each other
func (s *RecipeService) Patch(ctx context.Context, userID uuid.UUID, recipeID string, params PatchRecipeParams) (models.Recipe, error) {
	var recipe models.Recipe

	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		current, err := storage.Recipe().GetRecipe(ctx, userID, recipeID, true)
		if err != nil {
			return err
		}

		patch(&current, params)
		current.ModifiedAt = s.now().UTC()

		if err := validate(current); err != nil {
			return err
		}

		recipe, err = storage.Recipe().UpdateRecipe(ctx, current)
		return err
	})

	return recipe, err
}

func (s *RecipeService) Delete(ctx context.Context, userID uuid.UUID, recipeID string) error {
	return s.storage.Recipe().DeleteRecipe(ctx, userID, recipeID)
}

func apply(r *models.Recipe, p RecipeParams) {
	r.Title = strings.TrimSpace(p.Title)
	r.Description = p.Description
	r.Ingredients = p.Ingredients
	r.TimeMinutes = p.TimeMinutes
	r.Price = p.Price.Round(2)
	r.Link = p.Link
}

func patch(r *models.Recipe, p PatchRecipeParams) {
	if p.Title != nil {
		r.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = *p.Ingredients
	}
	if p.TimeMinutes != nil {
		r.TimeMinutes = *p.TimeMinutes
	}
	if p.Price != nil {
		r.Price = p.Price.Round(2)
	}
	if p.Link != nil {
		r.Link = *p.Link
	}
}

func validate(r models.Recipe) error {
	switch {
	case r.Title == "":
		return fmt.Errorf("%w: title must not be empty", apperrors.ErrRecipeInvalid)
	case r.TimeMinutes < 0:
		return fmt.Errorf("%w: time must not be negative", apperrors.ErrRecipeInvalid)
	case r.TimeMinutes > maxTimeMinutes:
		return fmt.Errorf("%w: time must not exceed %d", apperrors.ErrRecipeInvalid, maxTimeMinutes)
	case r.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrRecipeInvalid)
	case r.Price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price must be less than %s", apperrors.ErrRecipeInvalid, maxPrice)
	default:
		return nil
	}
}
