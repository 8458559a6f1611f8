package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
)

func labelModels() []any {
	return []any{&domain.User{}, &domain.Tag{}, &domain.Ingredient{}, &domain.Recipe{}}
}

func TestCreateTag_DuplicatePerUser(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	tag, err := CreateTag(ctx, db, "u1", "Dessert")
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.ID == "" || tag.UserID != "u1" || tag.Name != "Dessert" {
		t.Fatalf("unexpected tag: %+v", tag)
	}

	// Same (user, name) collides on the unique index.
	if _, err := CreateTag(ctx, db, "u1", "Dessert"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same name under another user is a different row.
	if _, err := CreateTag(ctx, db, "u2", "Dessert"); err != nil {
		t.Fatalf("same name under another user: %v", err)
	}
}

func TestFindOrCreateTag_Converges(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	first, err := FindOrCreateTag(ctx, db, "u1", "Vegan")
	if err != nil {
		t.Fatalf("first FindOrCreateTag: %v", err)
	}
	second, err := FindOrCreateTag(ctx, db, "u1", "Vegan")
	if err != nil {
		t.Fatalf("second FindOrCreateTag: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected both calls to yield the same row, got %q vs %q", first.ID, second.ID)
	}

	var cnt int64
	if err := db.Model(&domain.Tag{}).Where("user_id = ? AND name = ?", "u1", "Vegan").Count(&cnt).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected exactly one row, got %d", cnt)
	}
}

func TestListTags_OrderAndScoping(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	for _, name := range []string{"Breakfast", "Vegan", "Dessert"} {
		if _, err := CreateTag(ctx, db, "u1", name); err != nil {
			t.Fatalf("seed tag %s: %v", name, err)
		}
	}
	if _, err := CreateTag(ctx, db, "u2", "Comfort"); err != nil {
		t.Fatalf("seed other user's tag: %v", err)
	}

	got, err := ListTags(ctx, db, "u1", false)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	want := []string{"Vegan", "Dessert", "Breakfast"} // name desc
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("tags[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestListTags_AssignedOnly(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	dessert, err := CreateTag(ctx, db, "u1", "Dessert")
	if err != nil {
		t.Fatalf("seed dessert: %v", err)
	}
	vegan, err := CreateTag(ctx, db, "u1", "Vegan")
	if err != nil {
		t.Fatalf("seed vegan: %v", err)
	}

	// r1 (owned by u1) uses Dessert; r2 (owned by u2) uses Vegan. Only the
	// first assignment counts for u1.
	seedRecipe(t, db, "r1", "u1", time.Now().UTC())
	seedRecipe(t, db, "r2", "u2", time.Now().UTC())
	if err := ReplaceRecipeTags(ctx, db, "r1", []domain.Tag{*dessert}); err != nil {
		t.Fatalf("attach dessert: %v", err)
	}
	if err := ReplaceRecipeTags(ctx, db, "r2", []domain.Tag{*vegan}); err != nil {
		t.Fatalf("attach vegan: %v", err)
	}

	got, err := ListTags(ctx, db, "u1", true)
	if err != nil {
		t.Fatalf("ListTags assignedOnly: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Dessert" {
		t.Fatalf("expected only Dessert, got %+v", got)
	}
}

func TestGetTag_OwnershipScoping(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	tag, err := CreateTag(ctx, db, "u1", "Dinner")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	got, err := GetTag(ctx, db, tag.ID, "u1")
	if err != nil || got.Name != "Dinner" {
		t.Fatalf("GetTag owner: err=%v got=%+v", err, got)
	}
	// Another user's lookup must be indistinguishable from a missing row.
	if _, err := GetTag(ctx, db, tag.ID, "u2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for foreign owner, got %v", err)
	}
}

func TestUpdateTagName_Outcomes(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	tag, err := CreateTag(ctx, db, "u1", "Dessert")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	if _, err := CreateTag(ctx, db, "u1", "Vegan"); err != nil {
		t.Fatalf("seed second tag: %v", err)
	}

	if err := UpdateTagName(ctx, db, tag.ID, "u1", "After Dinner"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := GetTag(ctx, db, tag.ID, "u1")
	if err != nil || got.Name != "After Dinner" {
		t.Fatalf("readback after rename: err=%v got=%+v", err, got)
	}

	// Renaming onto an existing (user, name) pair collides.
	if err := UpdateTagName(ctx, db, tag.ID, "u1", "Vegan"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Missing row and foreign owner both report not-found.
	if err := UpdateTagName(ctx, db, "nope", "u1", "X"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing tag, got %v", err)
	}
	if err := UpdateTagName(ctx, db, tag.ID, "u2", "X"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for foreign owner, got %v", err)
	}
}

func TestDeleteTag_RemovesAssociations(t *testing.T) {
	db := newTestDB(t, labelModels()...)
	ctx := context.Background()

	tag, err := CreateTag(ctx, db, "u1", "Dessert")
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	seedRecipe(t, db, "r1", "u1", time.Now().UTC())
	if err := ReplaceRecipeTags(ctx, db, "r1", []domain.Tag{*tag}); err != nil {
		t.Fatalf("attach tag: %v", err)
	}

	if err := DeleteTag(ctx, db, tag.ID, "u2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign owner delete must not succeed, got %v", err)
	}
	if err := DeleteTag(ctx, db, tag.ID, "u1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	var cnt int64
	if err := db.Table("recipe_tags").Where("tag_id = ?", tag.ID).Count(&cnt).Error; err != nil {
		t.Fatalf("count join rows: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected recipe_tags rows to be removed, got %d", cnt)
	}
	// Recipes themselves are untouched.
	if err := db.Model(&domain.Recipe{}).Where("id = ?", "r1").Count(&cnt).Error; err != nil || cnt != 1 {
		t.Fatalf("recipe should survive tag delete: err=%v cnt=%d", err, cnt)
	}
}
