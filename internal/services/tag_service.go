// Package services – TagService
//
// This file implements the TagService, which manages the lifecycle of tags
// outside recipe writes: listing (optionally narrowed to tags assigned to at
// least one of the user's recipes), renames, and deletes. Creation happens
// implicitly through recipe reconciliation, matching the original API shape.
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

// TagService provides tag-level operations scoped to the requesting user.
type TagService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// NameMaxLen caps names by rune length.
	NameMaxLen int
}

// NewTagService constructs a TagService with the default name bound.
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{DB: db, NameMaxLen: 255}
}

// List returns the user's tags ordered by name descending. With assignedOnly
// set, only tags attached to at least one of the user's recipes are included.
func (s *TagService) List(ctx context.Context, userID string, assignedOnly bool) ([]domain.Tag, error) {
	return repo.ListTags(ctx, s.DB, userID, assignedOnly)
}

// Rename updates a tag's name, ensuring the tag exists and belongs to the
// given user, and returns the updated tag.
func (s *TagService) Rename(ctx context.Context, userID, id, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" || (s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen) {
		return nil, ErrInvalidName
	}
	if err := repo.UpdateTagName(ctx, s.DB, id, userID, name); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTagNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateName
		default:
			return nil, err
		}
	}
	return repo.GetTag(ctx, s.DB, id, userID)
}

// Delete removes a tag owned by the user, detaching it from all recipes.
func (s *TagService) Delete(ctx context.Context, userID, id string) error {
	if err := repo.DeleteTag(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}
	return nil
}
