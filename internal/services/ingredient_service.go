// Package services – IngredientService
//
// Ingredient lifecycle outside recipe writes: listing with the assigned-only
// narrowing, renames, and deletes. Mirrors TagService; the two label kinds
// share reconciliation semantics but remain separate entities.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/repo"
)

// IngredientService provides ingredient-level operations scoped to the
// requesting user.
type IngredientService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// NameMaxLen caps names by rune length.
	NameMaxLen int
}

// NewIngredientService constructs an IngredientService with the default
// name bound.
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{DB: db, NameMaxLen: 255}
}

// List returns the user's ingredients ordered by name descending. With
// assignedOnly set, only ingredients attached to at least one of the user's
// recipes are included.
func (s *IngredientService) List(ctx context.Context, userID string, assignedOnly bool) ([]domain.Ingredient, error) {
	return repo.ListIngredients(ctx, s.DB, userID, assignedOnly)
}

// Rename updates an ingredient's name, ensuring it exists and belongs to the
// given user, and returns the updated ingredient.
func (s *IngredientService) Rename(ctx context.Context, userID, id, name string) (*domain.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" || (s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen) {
		return nil, ErrInvalidName
	}
	if err := repo.UpdateIngredientName(ctx, s.DB, id, userID, name); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrIngredientNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateName
		default:
			return nil, err
		}
	}
	return repo.GetIngredient(ctx, s.DB, id, userID)
}

// Delete removes an ingredient owned by the user, detaching it from all
// recipes.
func (s *IngredientService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteIngredient(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIngredientNotFound
		}
		return err
	}
	return nil
}
