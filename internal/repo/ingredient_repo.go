// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ingredient
// model. Ingredients mirror tags: user-owned labels with find-or-create
// semantics guarded by the (user_id, name) unique index.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
)

// CreateIngredient inserts a new Ingredient row owned by userID.
// A (user_id, name) unique-index violation is returned as ErrDuplicate.
func CreateIngredient(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Ingredient, error) {
	in := &domain.Ingredient{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(in).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return in, nil
}

// FindIngredientByName fetches the ingredient owned by userID with the exact
// name, or ErrNotFound when no such row exists.
func FindIngredientByName(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Ingredient, error) {
	var in domain.Ingredient
	err := db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&in).Error
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// FindOrCreateIngredient returns the ingredient owned by userID with the
// given name, creating it when absent. Unique-index races fall back to the
// lookup path so concurrent callers converge on one row.
func FindOrCreateIngredient(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Ingredient, error) {
	in, err := FindIngredientByName(ctx, db, userID, name)
	if err == nil {
		return in, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	in, err = CreateIngredient(ctx, db, userID, name)
	if err == ErrDuplicate {
		return FindIngredientByName(ctx, db, userID, name)
	}
	return in, err
}

// ListIngredients returns all ingredients belonging to userID, ordered by
// name descending. When assignedOnly is true, only ingredients associated
// with at least one recipe owned by the same user are returned.
func ListIngredients(ctx context.Context, db *gorm.DB, userID string, assignedOnly bool) ([]domain.Ingredient, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if assignedOnly {
		q = q.Where(
			"id IN (?)",
			db.Table("recipe_ingredients").
				Select("recipe_ingredients.ingredient_id").
				Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
				Where("recipes.user_id = ?", userID),
		)
	}
	var out []domain.Ingredient
	err := q.Order("name desc").Find(&out).Error
	return out, err
}

// GetIngredient fetches a single ingredient by its ID and owner (userID).
// Missing and not-owned rows are both reported as ErrNotFound.
func GetIngredient(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Ingredient, error) {
	var in domain.Ingredient
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&in).Error
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// UpdateIngredientName renames an ingredient owned by userID. Returns
// ErrNotFound when missing or not owned, ErrDuplicate when the new name
// collides with an existing (user_id, name) pair.
func UpdateIngredientName(ctx context.Context, db *gorm.DB, id, userID, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.Ingredient{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteIngredient removes an ingredient owned by userID along with its
// recipe association rows; recipes themselves are untouched.
func DeleteIngredient(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Ingredient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", id).Error
	})
}
