// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and
// the Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into
// HTTP responses. Ownership is enforced below the transport layer; handlers
// only ever see the authenticated user id resolved by the auth middleware.
package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/http/middleware"
	"github.com/recipehub/go-recipe-backend/internal/repo"
	"github.com/recipehub/go-recipe-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates a new account from signup data.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	// Authenticate verifies credentials and returns a bearer token.
	Authenticate(ctx context.Context, email, password string) (string, error)
	// Get returns the user for the given id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile applies a partial update to the user's own profile.
	UpdateProfile(ctx context.Context, id string, in services.ProfileUpdate) (*domain.User, error)
}

// RecipeService defines recipe aggregate operations consumed by HTTP handlers.
type RecipeService interface {
	// Create persists a new recipe with reconciled label associations.
	Create(ctx context.Context, userID string, in services.RecipeInput) (*domain.Recipe, error)
	// Update applies a partial update, replacing label sets when present.
	Update(ctx context.Context, userID, id string, in services.RecipeUpdate) (*domain.Recipe, error)
	// List returns the user's recipes narrowed by the filter.
	List(ctx context.Context, userID string, f repo.RecipeFilter) ([]domain.Recipe, error)
	// Search ranks the user's recipes by textual similarity to a query.
	Search(ctx context.Context, userID, query string, limit int) ([]domain.Recipe, error)
	// Get returns one recipe with associations.
	Get(ctx context.Context, userID, id string) (*domain.Recipe, error)
	// Delete removes a recipe and its association rows.
	Delete(ctx context.Context, userID, id string) error
	// SaveImage stores an uploaded image and returns the updated recipe.
	SaveImage(ctx context.Context, userID, id, filename string, r io.Reader) (*domain.Recipe, error)
}

// TagService defines tag lifecycle operations consumed by HTTP handlers.
type TagService interface {
	// List returns the user's tags, optionally only assigned ones.
	List(ctx context.Context, userID string, assignedOnly bool) ([]domain.Tag, error)
	// Rename updates a tag's name and returns the updated tag.
	Rename(ctx context.Context, userID, id, name string) (*domain.Tag, error)
	// Delete removes a tag, detaching it from recipes.
	Delete(ctx context.Context, userID, id string) error
}

// IngredientService defines ingredient lifecycle operations consumed by
// HTTP handlers.
type IngredientService interface {
	// List returns the user's ingredients, optionally only assigned ones.
	List(ctx context.Context, userID string, assignedOnly bool) ([]domain.Ingredient, error)
	// Rename updates an ingredient's name and returns the updated ingredient.
	Rename(ctx context.Context, userID, id, name string) (*domain.Ingredient, error)
	// Delete removes an ingredient, detaching it from recipes.
	Delete(ctx context.Context, userID, id string) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for users, recipes, tags, and ingredients.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	userSvc       UserService
	recipeSvc     RecipeService
	tagSvc        TagService
	ingredientSvc IngredientService

	// IdempotencyTTL bounds how long a recorded Idempotency-Key replays a
	// completed creation. Zero falls back to 24h.
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc UserService, recipeSvc RecipeService, tagSvc TagService, ingredientSvc IngredientService) *Handlers {
	return &Handlers{
		userSvc:       userSvc,
		recipeSvc:     recipeSvc,
		tagSvc:        tagSvc,
		ingredientSvc: ingredientSvc,
	}
}

// userID extracts the authenticated user id from Gin context (set by the
// auth middleware). Identity comes exclusively from the context key; request
// headers are never trusted. Routes serving these handlers are mounted behind
// RequireAuth, so an empty result only occurs on a wiring mistake.
func userID(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
