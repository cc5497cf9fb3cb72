package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/tastybites/internal/apperrors"
	"github.com/nkiryanov/tastybites/internal/handlers/render"
	"github.com/nkiryanov/tastybites/internal/handlers/userctx"
	"github.com/nkiryanov/tastybites/internal/logger"
	"github.com/nkiryanov/tastybites/internal/models"
	"github.com/nkiryanov/tastybites/internal/service/recipe"
)

// Short representation used in list
type recipeSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Ingredients string `json:"ingredients"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
}

type recipeDetail struct {
	recipeSummary
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

func newRecipeSummary(r models.Recipe) recipeSummary {
	return recipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: r.Ingredients,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
	}
}

func newRecipeDetail(r models.Recipe) recipeDetail {
	return recipeDetail{
		recipeSummary: newRecipeSummary(r),
		Description:   r.Description,
		CreatedAt:     r.CreatedAt.UTC(),
		ModifiedAt:    r.ModifiedAt.UTC(),
	}
}

type recipeRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Ingredients string          `json:"ingredients"`
	TimeMinutes int             `json:"time_minutes" validate:"gte=0,lte=2147483647"`
	Price       decimal.Decimal `json:"price" validate:"gte=0,lt=1000000"`
	Link        string          `json:"link" validate:"omitempty,url,max=255"`
}

func (req recipeRequest) params() recipe.RecipeParams {
	return recipe.RecipeParams{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
	}
}

// Render recipe service error
func recipeError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrRecipeNotFound):
		render.ServiceError(w, "Recipe not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.ServiceError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrRecipeInvalid):
		render.ServiceError(w, err.Error(), http.StatusBadRequest)
	default:
		l.Error("Recipe request failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func handleListRecipes(recipeService recipeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		recipes, err := recipeService.List(r.Context(), principal.UserID)
		if err != nil {
			recipeError(w, l, err)
			return
		}

		res := make([]recipeSummary, 0, len(recipes))
		for _, rc := range recipes {
			res = append(res, newRecipeSummary(rc))
		}
		render.JSON(w, res)
	})
}

func handleCreateRecipe(recipeService recipeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[recipeRequest](w, r)
		if err != nil {
			return
		}

		created, err := recipeService.Create(r.Context(), principal.UserID, data.params())
		if err != nil {
			recipeError(w, l, err)
			return
		}

		render.JSONWithStatus(w, newRecipeDetail(created), http.StatusCreated)
	})
}

func handleGetRecipe(recipeService recipeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		rc, err := recipeService.Get(r.Context(), principal.UserID, r.PathValue("id"))
		if err != nil {
			recipeError(w, l, err)
			return
		}

		render.JSON(w, newRecipeDetail(rc))
	})
}

func handleUpdateRecipe(recipeService recipeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[recipeRequest](w, r)
		if err != nil {
			return
		}

		updated, err := recipeService.Update(r.Context(), principal.UserID, r.PathValue("id"), data.params())
		if err != nil {
			recipeError(w, l, err)
			return
		}

		render.JSON(w, newRecipeDetail(updated))
	})
}

func handlePatchRecipe(recipeService recipeService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string          `json:"title" validate:"omitempty,max=255"`
		Description *string          `json:"description"`
		Ingredients *string          `json:"ingredients"`
		TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0,lte=2147483647"`
		Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lt=1000000"`
		Link        *string          `json:"link" validate:"omitempty,url,max=255"`
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

		patched, err := recipeService.Patch(r.Context(), principal.UserID, r.PathValue("id"), recipe.PatchRecipeParams{
			Title:       data.Title,
			Description: data.Description,
			Ingredients: data.Ingredients,
			TimeMinutes: data.TimeMinutes,
			Price:       data.Price,
			Link:        data.Link,
		})
		if err != nil {
			recipeError(w, l, err)
			return
		}

		render.JSON(w, newRecipeDetail(patched))
	})
}

func handleDeleteRecipe(recipeService recipeService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal service error", http.StatusInternalServerError)
			return
		}

		if err := recipeService.Delete(r.Context(), principal.UserID, r.PathValue("id")); err != nil {
			recipeError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
