// Package services – label reconciliation
//
// This file implements the find-or-create logic that resolves nested label
// payloads ({name} entries) on recipe writes into concrete Tag/Ingredient
// rows owned by the requesting user. Reconciliation is idempotent: a name
// that already exists for the user reuses its row, and duplicate names
// within one request collapse to a single entity. Cross-request races on a
// new name are settled by the (user_id, name) unique index; the losing
// insert falls back to a lookup inside repo.FindOrCreate*.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/repo"
)

// LabelInput is a nested label payload entry on recipe writes.
type LabelInput struct {
	// Name identifies the tag or ingredient; matching is exact after
	// trimming surrounding whitespace.
	Name string `json:"name" binding:"required,min=1,max=255" example:"Vegan"`
}

// dedupeNames trims and deduplicates label names, preserving first-seen
// order so creation side effects are deterministic. Empty names are dropped.
func dedupeNames(labels []LabelInput) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// reconcileTags resolves each label entry to a Tag owned by userID, creating
// missing ones. An empty input reconciles to an empty set.
func reconcileTags(ctx context.Context, db *gorm.DB, userID string, labels []LabelInput) ([]domain.Tag, error) {
	names := dedupeNames(labels)
	out := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		t, err := repo.FindOrCreateTag(ctx, db, userID, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// reconcileIngredients resolves each label entry to an Ingredient owned by
// userID, creating missing ones. An empty input reconciles to an empty set.
func reconcileIngredients(ctx context.Context, db *gorm.DB, userID string, labels []LabelInput) ([]domain.Ingredient, error) {
	names := dedupeNames(labels)
	out := make([]domain.Ingredient, 0, len(names))
	for _, name := range names {
		in, err := repo.FindOrCreateIngredient(ctx, db, userID, name)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, nil
}
