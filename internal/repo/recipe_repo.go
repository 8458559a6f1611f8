// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Recipe
// aggregate and its tag/ingredient association sets.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. The
// write coordinator in the services package composes them inside a single
// transaction so a recipe is never observable with partial associations.
//
// Error semantics:
//   - When a recipe is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience). A recipe owned by
//     a different user is indistinguishable from a missing one.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
)

// RecipeFilter narrows ListRecipes to recipes whose association sets
// intersect the given id lists. Empty lists impose no constraint; when both
// are present a recipe must satisfy both. Unknown or malformed ids simply
// match nothing.
type RecipeFilter struct {
	TagIDs        []string
	IngredientIDs []string
}

// CreateRecipe inserts a new Recipe row owned by userID. The recipe ID is a
// randomly generated UUID, and CreatedAt is set to UTC. Associations are not
// touched here; the caller reconciles and attaches them separately.
func CreateRecipe(ctx context.Context, db *gorm.DB, userID, title string, timeMinutes int, price decimal.Decimal, description string) (*domain.Recipe, error) {
	r := &domain.Recipe{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		TimeMinutes: timeMinutes,
		Price:       price,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns recipes belonging to userID, newest first, optionally
// narrowed by the filter. Association sets are not preloaded; list responses
// project only scalar fields.
func ListRecipes(ctx context.Context, db *gorm.DB, userID string, f RecipeFilter) ([]domain.Recipe, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if len(f.TagIDs) > 0 {
		q = q.Where(
			"id IN (?)",
			db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", f.TagIDs),
		)
	}
	if len(f.IngredientIDs) > 0 {
		q = q.Where(
			"id IN (?)",
			db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", f.IngredientIDs),
		)
	}
	var out []domain.Recipe
	err := q.Order("created_at desc").Find(&out).Error
	return out, err
}

// GetRecipe fetches a single recipe by its ID and owner (userID) with tags
// and ingredients preloaded. If the record does not exist, or belongs to a
// different user, it returns ErrNotFound.
func GetRecipe(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Recipe, error) {
	var r domain.Recipe
	err := db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRecipeColumns applies the given column updates to a recipe owned by
// userID. Returns ErrNotFound when no row matches. Passing an empty map is a
// no-op that still verifies existence.
func UpdateRecipeColumns(ctx context.Context, db *gorm.DB, id, userID string, updates map[string]any) error {
	if len(updates) == 0 {
		var r domain.Recipe
		return db.WithContext(ctx).
			Select("id").
			Where("id = ? AND user_id = ?", id, userID).
			First(&r).Error
	}
	res := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceRecipeTags sets the recipe's tag association set to exactly the
// given tags, clearing any prior links. An empty slice clears the set.
func ReplaceRecipeTags(ctx context.Context, db *gorm.DB, recipeID string, tags []domain.Tag) error {
	rec := domain.Recipe{ID: recipeID}
	if len(tags) == 0 {
		return db.WithContext(ctx).Model(&rec).Association("Tags").Clear()
	}
	return db.WithContext(ctx).Model(&rec).Association("Tags").Replace(&tags)
}

// ReplaceRecipeIngredients sets the recipe's ingredient association set to
// exactly the given ingredients, clearing any prior links.
func ReplaceRecipeIngredients(ctx context.Context, db *gorm.DB, recipeID string, ingredients []domain.Ingredient) error {
	rec := domain.Recipe{ID: recipeID}
	if len(ingredients) == 0 {
		return db.WithContext(ctx).Model(&rec).Association("Ingredients").Clear()
	}
	return db.WithContext(ctx).Model(&rec).Association("Ingredients").Replace(&ingredients)
}

// DeleteRecipe removes a recipe owned by userID together with its
// association rows. Tag and Ingredient entities are never deleted here.
// Returns ErrNotFound when the recipe is missing or owned by another user.
func DeleteRecipe(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id).Error
	})
}

// CountRecipes returns the total number of recipes owned by userID.
func CountRecipes(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Recipe{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
