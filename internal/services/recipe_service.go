// Package services – RecipeService
//
// This file implements the RecipeService, the write coordinator for the
// Recipe aggregate. Creates and updates run inside a single transaction:
// scalar fields are persisted first, then nested tag/ingredient payloads are
// reconciled (find-or-create per owner+name) and the association sets are
// replaced wholesale. If any step fails the whole write rolls back, so a
// recipe is never observable with partial associations.
//
// Partial-update semantics: only fields present in the payload are modified.
// A present-but-empty label list clears the association set; an absent list
// leaves it untouched. The owner is never taken from a payload — attempts to
// change it are silently dropped upstream by simply having no such field on
// the input types.
package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/repo"
	"github.com/recipehub/go-recipe-backend/internal/search"
)

// ImageStore persists uploaded recipe images. Implementations validate that
// the payload is a decodable image and return a stable relative path.
type ImageStore interface {
	// Save validates and stores an image, returning its path. The original
	// filename is used only for its extension.
	Save(filename string, r io.Reader) (string, error)
	// Remove deletes a previously stored image. Missing files are not an error.
	Remove(path string) error
}

// RecipeInput carries the payload for creating a recipe. Nil label slices
// mean "field absent": the recipe starts with no associations.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Tags        *[]LabelInput
	Ingredients *[]LabelInput
}

// RecipeUpdate carries a partial update; nil fields are left untouched.
type RecipeUpdate struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Tags        *[]LabelInput
	Ingredients *[]LabelInput
}

// RecipeService coordinates recipe reads and writes, including label
// reconciliation and image handling.
type RecipeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Images stores uploaded recipe images; may be nil when uploads are disabled.
	Images ImageStore

	// MaxTitleLen caps titles by rune length.
	MaxTitleLen int
	// MaxDescriptionLen caps descriptions by rune length.
	MaxDescriptionLen int
}

// NewRecipeService constructs a RecipeService with the default field bounds.
func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		DB:                db,
		Images:            images,
		MaxTitleLen:       255,
		MaxDescriptionLen: 2000,
	}
}

// Create validates the payload and persists a new recipe owned by userID,
// reconciling nested labels when present. It returns the created recipe with
// resolved associations.
func (s *RecipeService) Create(ctx context.Context, userID string, in RecipeInput) (*domain.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if err := s.validateTitle(title); err != nil {
		return nil, err
	}
	if in.TimeMinutes < 0 {
		return nil, ErrInvalidTime
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := s.validateDescription(in.Description); err != nil {
		return nil, err
	}

	var id string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := repo.CreateRecipe(ctx, tx, userID, title, in.TimeMinutes, in.Price, in.Description)
		if err != nil {
			return err
		}
		id = rec.ID
		if in.Tags != nil {
			tags, err := reconcileTags(ctx, tx, userID, *in.Tags)
			if err != nil {
				return err
			}
			if err := repo.ReplaceRecipeTags(ctx, tx, id, tags); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			ingredients, err := reconcileIngredients(ctx, tx, userID, *in.Ingredients)
			if err != nil {
				return err
			}
			if err := repo.ReplaceRecipeIngredients(ctx, tx, id, ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Update applies a partial update to a recipe owned by userID. Present label
// lists are reconciled and replace the prior association set; absent lists
// are left untouched.
func (s *RecipeService) Update(ctx context.Context, userID, id string, in RecipeUpdate) (*domain.Recipe, error) {
	updates := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := s.validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.TimeMinutes != nil {
		if *in.TimeMinutes < 0 {
			return nil, ErrInvalidTime
		}
		updates["time_minutes"] = *in.TimeMinutes
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		updates["price"] = *in.Price
	}
	if in.Description != nil {
		if err := s.validateDescription(*in.Description); err != nil {
			return nil, err
		}
		updates["description"] = *in.Description
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ownership check doubles as the existence check; not-owned is
		// indistinguishable from missing.
		if _, err := repo.GetRecipe(ctx, tx, id, userID); err != nil {
			return err
		}
		if err := repo.UpdateRecipeColumns(ctx, tx, id, userID, updates); err != nil {
			return err
		}
		if in.Tags != nil {
			tags, err := reconcileTags(ctx, tx, userID, *in.Tags)
			if err != nil {
				return err
			}
			if err := repo.ReplaceRecipeTags(ctx, tx, id, tags); err != nil {
				return err
			}
		}
		if in.Ingredients != nil {
			ingredients, err := reconcileIngredients(ctx, tx, userID, *in.Ingredients)
			if err != nil {
				return err
			}
			if err := repo.ReplaceRecipeIngredients(ctx, tx, id, ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// List returns the user's recipes, newest first, narrowed by the filter.
func (s *RecipeService) List(ctx context.Context, userID string, f repo.RecipeFilter) ([]domain.Recipe, error) {
	return repo.ListRecipes(ctx, s.DB, userID, f)
}

// Get returns a single recipe with associations, or ErrRecipeNotFound.
func (s *RecipeService) Get(ctx context.Context, userID, id string) (*domain.Recipe, error) {
	rec, err := repo.GetRecipe(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes a recipe and its association rows. Labels survive.
func (s *RecipeService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteRecipe(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

// Search ranks the user's recipes by textual similarity of title and
// description to the query and returns up to limit of them, best first.
// The corpus is one user's recipes, so the index is built per call.
func (s *RecipeService) Search(ctx context.Context, userID, query string, limit int) ([]domain.Recipe, error) {
	recipes, err := repo.ListRecipes(ctx, s.DB, userID, repo.RecipeFilter{})
	if err != nil {
		return nil, err
	}
	docs := make([]search.Document, 0, len(recipes))
	byID := make(map[string]domain.Recipe, len(recipes))
	for _, r := range recipes {
		docs = append(docs, search.Document{ID: r.ID, Text: r.Title + " " + r.Description})
		byID[r.ID] = r
	}
	if limit <= 0 {
		limit = 10
	}
	ranked := search.New(docs).TopK(query, limit)
	out := make([]domain.Recipe, 0, len(ranked))
	for _, res := range ranked {
		out = append(out, byID[res.ID])
	}
	return out, nil
}

// SaveImage stores an uploaded image for a recipe owned by userID, replacing
// any previous image file, and returns the updated recipe.
func (s *RecipeService) SaveImage(ctx context.Context, userID, id, filename string, r io.Reader) (*domain.Recipe, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	path, err := s.Images.Save(filename, r)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateRecipeColumns(ctx, s.DB, id, userID, map[string]any{"image_path": path}); err != nil {
		_ = s.Images.Remove(path)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	// Best effort: the old file is orphaned otherwise.
	if rec.ImagePath != "" && rec.ImagePath != path {
		_ = s.Images.Remove(rec.ImagePath)
	}
	return s.Get(ctx, userID, id)
}

// validateTitle enforces non-empty titles within the configured rune bound.
func (s *RecipeService) validateTitle(title string) error {
	if title == "" || (s.MaxTitleLen > 0 && utf8.RuneCountInString(title) > s.MaxTitleLen) {
		return ErrInvalidTitle
	}
	return nil
}

// validateDescription enforces the configured rune bound; empty is allowed.
func (s *RecipeService) validateDescription(desc string) error {
	if s.MaxDescriptionLen > 0 && utf8.RuneCountInString(desc) > s.MaxDescriptionLen {
		return ErrInvalidDescription
	}
	return nil
}

// validatePrice enforces decimal(5,2): non-negative, at most two decimal
// places, and fewer than four integer digits.
func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Exponent() < -2 {
		return ErrInvalidPrice
	}
	if p.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return ErrInvalidPrice
	}
	return nil
}
