// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Tag model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a tag is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - FindOrCreateTag translates the (user_id, name) unique-index race into
//     a second lookup, so concurrent callers converge on one row.
//   - On other DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
)

// CreateTag inserts a new Tag row owned by userID with the given name.
// A (user_id, name) unique-index violation is returned as ErrDuplicate.
func CreateTag(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Tag, error) {
	t := &domain.Tag{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return t, nil
}

// FindTagByName fetches the tag owned by userID with the exact name, or
// ErrNotFound when no such row exists.
func FindTagByName(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Tag, error) {
	var t domain.Tag
	err := db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindOrCreateTag returns the tag owned by userID with the given name,
// creating it when absent. When two requests race on the same new name, the
// loser of the unique-index conflict falls back to the lookup and reuses the
// winner's row; the conflict is never surfaced to the caller.
func FindOrCreateTag(ctx context.Context, db *gorm.DB, userID, name string) (*domain.Tag, error) {
	t, err := FindTagByName(ctx, db, userID, name)
	if err == nil {
		return t, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	t, err = CreateTag(ctx, db, userID, name)
	if err == ErrDuplicate {
		return FindTagByName(ctx, db, userID, name)
	}
	return t, err
}

// ListTags returns all tags belonging to userID, ordered by name descending.
// When assignedOnly is true, only tags associated with at least one recipe
// owned by the same user are returned.
func ListTags(ctx context.Context, db *gorm.DB, userID string, assignedOnly bool) ([]domain.Tag, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if assignedOnly {
		q = q.Where(
			"id IN (?)",
			db.Table("recipe_tags").
				Select("recipe_tags.tag_id").
				Joins("JOIN recipes ON recipes.id = recipe_tags.recipe_id").
				Where("recipes.user_id = ?", userID),
		)
	}
	var out []domain.Tag
	err := q.Order("name desc").Find(&out).Error
	return out, err
}

// GetTag fetches a single tag by its ID and owner (userID). If the record
// does not exist, or is owned by a different user, it returns ErrNotFound.
func GetTag(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Tag, error) {
	var t domain.Tag
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTagName renames a tag identified by id and owned by userID. If no
// rows are affected (tag missing or not owned by userID), it returns
// ErrNotFound. A rename that collides with an existing (user_id, name) pair
// is returned as ErrDuplicate.
func UpdateTagName(ctx context.Context, db *gorm.DB, id, userID, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.Tag{}).
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

// DeleteTag removes a tag owned by userID. Association rows in recipe_tags
// are removed with it; recipes themselves are untouched. Returns ErrNotFound
// when the tag does not exist or belongs to another user.
func DeleteTag(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&domain.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error
	})
}
