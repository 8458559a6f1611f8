package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/repo"
)

// fakeImageStore records Save/Remove calls without touching the filesystem.
type fakeImageStore struct {
	saveErr error
	nextRel string
	saved   []string
	removed []string
}

func (f *fakeImageStore) Save(filename string, r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	_, _ = io.Copy(io.Discard, r)
	rel := f.nextRel
	if rel == "" {
		rel = "uploads/recipe/fake.png"
	}
	f.saved = append(f.saved, rel)
	return rel, nil
}

func (f *fakeImageStore) Remove(rel string) error {
	f.removed = append(f.removed, rel)
	return nil
}

func newRecipeService(t *testing.T) *RecipeService {
	t.Helper()
	return NewRecipeService(newSvcDB(t), &fakeImageStore{})
}

func labels(names ...string) *[]LabelInput {
	out := make([]LabelInput, 0, len(names))
	for _, n := range names {
		out = append(out, LabelInput{Name: n})
	}
	return &out
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecipeCreate_WithNestedLabels(t *testing.T) {
	svc := newRecipeService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", RecipeInput{
		Title:       "  Avocado lime cheesecake  ",
		TimeMinutes: 60,
		Price:       price("20.00"),
		Tags:        labels("Dessert", " Dessert ", "Vegan"), // dupes collapse
		Ingredients: labels("Lime"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Title != "Avocado lime cheesecake" {
		t.Fatalf("title must be trimmed, got %q", rec.Title)
	}
	if len(rec.Tags) != 2 || len(rec.Ingredients) != 1 {
		t.Fatalf("expected 2 tags / 1 ingredient, got %d / %d", len(rec.Tags), len(rec.Ingredients))
	}

	// A second recipe naming an existing tag reuses its row.
	again, err := svc.Create(ctx, "u1", RecipeInput{
		Title:       "Vegan brownies",
		TimeMinutes: 30,
		Price:       price("8.00"),
		Tags:        labels("Vegan"),
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	var veganID string
	for _, tag := range rec.Tags {
		if tag.Name == "Vegan" {
			veganID = tag.ID
		}
	}
	if len(again.Tags) != 1 || again.Tags[0].ID != veganID {
		t.Fatalf("expected reconciled Vegan tag %q, got %+v", veganID, again.Tags)
	}
}

func TestRecipeCreate_Validation(t *testing.T) {
	svc := newRecipeService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RecipeInput
		want error
	}{
		{"empty title", RecipeInput{Title: "   ", TimeMinutes: 1, Price: price("1.00")}, ErrInvalidTitle},
		{"long title", RecipeInput{Title: strings.Repeat("x", 256), TimeMinutes: 1, Price: price("1.00")}, ErrInvalidTitle},
		{"negative time", RecipeInput{Title: "T", TimeMinutes: -1, Price: price("1.00")}, ErrInvalidTime},
		{"negative price", RecipeInput{Title: "T", TimeMinutes: 1, Price: price("-1.00")}, ErrInvalidPrice},
		{"too many decimals", RecipeInput{Title: "T", TimeMinutes: 1, Price: price("1.999")}, ErrInvalidPrice},
		{"price too large", RecipeInput{Title: "T", TimeMinutes: 1, Price: price("1000.00")}, ErrInvalidPrice},
		{"long description", RecipeInput{Title: "T", TimeMinutes: 1, Price: price("1.00"), Description: strings.Repeat("d", 2001)}, ErrInvalidDescription},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "u1", c.in); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestRecipeUpdate_PartialSemantics(t *testing.T) {
	svc := newRecipeService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", RecipeInput{
		Title:       "Thai prawn red curry",
		TimeMinutes: 25,
		Price:       price("12.50"),
		Tags:        labels("Dinner"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Title-only update: everything else, including labels, is untouched.
	title := "Green curry"
	got, err := svc.Update(ctx, "u1", rec.ID, RecipeUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update title: %v", err)
	}
	if got.Title != "Green curry" || got.TimeMinutes != 25 || !got.Price.Equal(price("12.50")) {
		t.Fatalf("unexpected recipe after title update: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "Dinner" {
		t.Fatalf("absent tag list must leave associations alone, got %+v", got.Tags)
	}

	// Present-but-empty list clears the association set.
	got, err = svc.Update(ctx, "u1", rec.ID, RecipeUpdate{Tags: &[]LabelInput{}})
	if err != nil {
		t.Fatalf("Update clear tags: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Fatalf("expected tags cleared, got %+v", got.Tags)
	}
	// The tag row itself survives for reuse.
	if _, err := repo.FindTagByName(ctx, svc.DB, "u1", "Dinner"); err != nil {
		t.Fatalf("tag row must survive clearing: %v", err)
	}

	// Present list swaps the whole set.
	got, err = svc.Update(ctx, "u1", rec.ID, RecipeUpdate{Tags: labels("Weeknight")})
	if err != nil {
		t.Fatalf("Update swap tags: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "Weeknight" {
		t.Fatalf("expected swapped tag set, got %+v", got.Tags)
	}

	// Validation still applies on partial updates.
	bad := decimal.RequireFromString("-5")
	if _, err := svc.Update(ctx, "u1", rec.ID, RecipeUpdate{Price: &bad}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}

	// Another user's recipe looks missing.
	if _, err := svc.Update(ctx, "u2", rec.ID, RecipeUpdate{Title: &title}); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for foreign owner, got %v", err)
	}
	if _, err := svc.Update(ctx, "u1", "missing", RecipeUpdate{Title: &title}); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for missing id, got %v", err)
	}
}

func TestRecipeGetDelete_Ownership(t *testing.T) {
	svc := newRecipeService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", RecipeInput{Title: "Soup", TimeMinutes: 10, Price: price("3.00")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, "u2", rec.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for foreign owner, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", rec.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("foreign owner delete must not succeed, got %v", err)
	}
	if err := svc.Delete(ctx, "u1", rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", rec.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound after delete, got %v", err)
	}
}

func TestRecipeSearch_RanksByTitleAndDescription(t *testing.T) {
	svc := newRecipeService(t)
	ctx := context.Background()

	seed := func(title, desc string) *domain.Recipe {
		rec, err := svc.Create(ctx, "u1", RecipeInput{Title: title, TimeMinutes: 5, Price: price("5.00"), Description: desc})
		if err != nil {
			t.Fatalf("seed %q: %v", title, err)
		}
		return rec
	}
	cheesecake := seed("Avocado lime cheesecake", "")
	seed("Thai prawn red curry", "")
	soda := seed("Soda", "lime and ice")

	got, err := svc.Search(ctx, "u1", "lime cheesecake", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ID != cheesecake.ID || got[1].ID != soda.ID {
		t.Fatalf("expected [cheesecake soda], got %+v", got)
	}

	// Limit truncates after ranking.
	got, err = svc.Search(ctx, "u1", "lime cheesecake", 1)
	if err != nil || len(got) != 1 || got[0].ID != cheesecake.ID {
		t.Fatalf("limit=1: err=%v got=%+v", err, got)
	}

	// No token overlap means no results, and other users see nothing.
	if got, err := svc.Search(ctx, "u1", "pizza", 10); err != nil || len(got) != 0 {
		t.Fatalf("no-match query: err=%v got=%+v", err, got)
	}
	if got, err := svc.Search(ctx, "u2", "lime", 10); err != nil || len(got) != 0 {
		t.Fatalf("foreign user search: err=%v got=%+v", err, got)
	}
}

func TestRecipeSaveImage_ReplacesOldFile(t *testing.T) {
	store := &fakeImageStore{}
	svc := NewRecipeService(newSvcDB(t), store)
	ctx := context.Background()

	rec, err := svc.Create(ctx, "u1", RecipeInput{Title: "Soup", TimeMinutes: 10, Price: price("3.00")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	store.nextRel = "uploads/recipe/one.png"
	got, err := svc.SaveImage(ctx, "u1", rec.ID, "one.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if got.ImagePath != "uploads/recipe/one.png" {
		t.Fatalf("image path = %q", got.ImagePath)
	}

	// Replacing the image removes the previous file.
	store.nextRel = "uploads/recipe/two.png"
	got, err = svc.SaveImage(ctx, "u1", rec.ID, "two.png", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("SaveImage replace: %v", err)
	}
	if got.ImagePath != "uploads/recipe/two.png" {
		t.Fatalf("image path after replace = %q", got.ImagePath)
	}
	if len(store.removed) != 1 || store.removed[0] != "uploads/recipe/one.png" {
		t.Fatalf("expected old file removal, removed=%v", store.removed)
	}

	// Store-level rejection propagates as ErrNotAnImage.
	store.saveErr = ErrNotAnImage
	if _, err := svc.SaveImage(ctx, "u1", rec.ID, "x.txt", strings.NewReader("nope")); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
	store.saveErr = nil

	// Ownership gate fires before any storage work.
	if _, err := svc.SaveImage(ctx, "u2", rec.ID, "x.png", strings.NewReader("img")); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for foreign owner, got %v", err)
	}
}
