package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/services"
)

const testTagID = "223e4567-e89b-12d3-a456-426614174000"

func newLabelHandlers(tags *stubLabelSvc[domain.Tag], ingredients *stubLabelSvc[domain.Ingredient]) *Handlers {
	if tags == nil {
		tags = &stubLabelSvc[domain.Tag]{}
	}
	if ingredients == nil {
		ingredients = &stubLabelSvc[domain.Ingredient]{}
	}
	return New(&stubUserSvc{}, &stubRecipeSvc{}, tags, ingredients)
}

func TestListTags_AssignedOnlyFlag(t *testing.T) {
	var gotAssigned bool
	tags := &stubLabelSvc[domain.Tag]{
		listFn: func(ctx context.Context, userID string, assignedOnly bool) ([]domain.Tag, error) {
			gotAssigned = assignedOnly
			return []domain.Tag{{ID: testTagID, Name: "Dessert"}}, nil
		},
	}
	r := newHandlerRouter(newLabelHandlers(tags, nil))

	cases := []struct {
		query string
		want  bool
	}{
		{"", false},
		{"?assigned_only=1", true},
		{"?assigned_only=true", true},
		{"?assigned_only=yes", true},
		{"?assigned_only=0", false},
		{"?assigned_only=false", false},
	}
	for _, c := range cases {
		w := doJSON(t, r, http.MethodGet, "/tags"+c.query, "u1", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("query %q: status = %d", c.query, w.Code)
		}
		if gotAssigned != c.want {
			t.Fatalf("query %q: assignedOnly = %v, want %v", c.query, gotAssigned, c.want)
		}
	}
}

func TestUpdateTag(t *testing.T) {
	tags := &stubLabelSvc[domain.Tag]{
		renameFn: func(ctx context.Context, userID, id, name string) (*domain.Tag, error) {
			return &domain.Tag{ID: id, UserID: userID, Name: name}, nil
		},
	}
	r := newHandlerRouter(newLabelHandlers(tags, nil))

	w := doJSON(t, r, http.MethodPatch, "/tags/not-a-uuid", "u1", map[string]any{"name": "X"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid: status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPatch, "/tags/"+testTagID, "u1", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing name: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPatch, "/tags/"+testTagID, "u1", map[string]any{"name": "Brunch"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Brunch"`) {
		t.Fatalf("rename: status=%d body=%s", w.Code, w.Body.String())
	}

	tags.renameFn = func(ctx context.Context, userID, id, name string) (*domain.Tag, error) {
		return nil, services.ErrTagNotFound
	}
	w = doJSON(t, r, http.MethodPatch, "/tags/"+testTagID, "u1", map[string]any{"name": "X"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("not found: status = %d", w.Code)
	}

	tags.renameFn = func(ctx context.Context, userID, id, name string) (*domain.Tag, error) {
		return nil, services.ErrDuplicateName
	}
	w = doJSON(t, r, http.MethodPatch, "/tags/"+testTagID, "u1", map[string]any{"name": "X"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate: status = %d", w.Code)
	}
}

func TestDeleteTag(t *testing.T) {
	tags := &stubLabelSvc[domain.Tag]{
		deleteFn: func(ctx context.Context, userID, id string) error {
			if userID != "u1" {
				return services.ErrTagNotFound
			}
			return nil
		},
	}
	r := newHandlerRouter(newLabelHandlers(tags, nil))

	w := doJSON(t, r, http.MethodDelete, "/tags/"+testTagID, "u1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/tags/"+testTagID, "u2", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign owner: status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/tags/not-a-uuid", "u1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid: status = %d", w.Code)
	}
}

func TestIngredientEndpoints(t *testing.T) {
	ingredients := &stubLabelSvc[domain.Ingredient]{
		listFn: func(ctx context.Context, userID string, assignedOnly bool) ([]domain.Ingredient, error) {
			return []domain.Ingredient{{ID: testTagID, Name: "Lime"}}, nil
		},
		renameFn: func(ctx context.Context, userID, id, name string) (*domain.Ingredient, error) {
			return nil, services.ErrIngredientNotFound
		},
		deleteFn: func(ctx context.Context, userID, id string) error {
			return nil
		},
	}
	r := newHandlerRouter(newLabelHandlers(nil, ingredients))

	w := doJSON(t, r, http.MethodGet, "/ingredients", "u1", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Lime"`) {
		t.Fatalf("list: status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPatch, "/ingredients/"+testTagID, "u1", map[string]any{"name": "X"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("rename missing: status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/ingredients/"+testTagID, "u1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", w.Code)
	}
}
