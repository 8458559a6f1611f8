// Recipe HTTP handlers.
//
// This file exposes REST endpoints for the recipe aggregate:
//   - GET    /recipes            (list, filterable, ETag support)
//   - POST   /recipes            (create, idempotency-key aware)
//   - GET    /recipes/{id}       (detail incl. description and labels)
//   - PUT    /recipes/{id}       (update; present fields only)
//   - PATCH  /recipes/{id}       (partial update)
//   - DELETE /recipes/{id}       (delete)
//   - POST   /recipes/{id}/image (multipart image upload)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. List responses
// project a summary shape (no description, no labels); the detail response
// serializes the full aggregate. Owner fields never appear in request
// payloads, so attempts to reassign ownership are dropped by construction.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/http/middleware"
	"github.com/recipehub/go-recipe-backend/internal/repo"
	"github.com/recipehub/go-recipe-backend/internal/services"
	"github.com/recipehub/go-recipe-backend/internal/utils"
)

//
// DTOs
//

// CreateRecipeRequest is the JSON payload for creating a recipe. Label lists
// are optional; a present list (even empty) sets the association set exactly.
type CreateRecipeRequest struct {
	Title       string                  `json:"title"        binding:"required,max=255" example:"Avocado lime cheesecake"`
	TimeMinutes *int                    `json:"time_minutes" binding:"required"         example:"22"`
	Price       *decimal.Decimal        `json:"price"        binding:"required"         swaggertype:"string" example:"5.25"`
	Description string                  `json:"description"  binding:"max=2000"         example:"Test desc"`
	Tags        *[]services.LabelInput  `json:"tags,omitempty"`
	Ingredients *[]services.LabelInput  `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest is the JSON payload for updating a recipe. Absent
// fields are left untouched; a present label list replaces the association
// set wholesale (empty list clears it).
type UpdateRecipeRequest struct {
	Title       *string                 `json:"title,omitempty"        example:"New title"`
	TimeMinutes *int                    `json:"time_minutes,omitempty" example:"30"`
	Price       *decimal.Decimal        `json:"price,omitempty"        swaggertype:"string" example:"9.99"`
	Description *string                 `json:"description,omitempty"  example:"New desc"`
	Tags        *[]services.LabelInput  `json:"tags,omitempty"`
	Ingredients *[]services.LabelInput  `json:"ingredients,omitempty"`
}

// RecipeSummary is the list projection of a recipe: scalar fields only,
// no description and no label sets.
type RecipeSummary struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
	Image       string          `json:"image,omitempty"`
}

// summarize projects recipes into their list shape.
func summarize(recipes []domain.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, RecipeSummary{
			ID:          r.ID,
			Title:       r.Title,
			TimeMinutes: r.TimeMinutes,
			Price:       r.Price,
			Image:       r.ImagePath,
		})
	}
	return out
}

//
// Handlers
//

// ListRecipes godoc
// @ID          listRecipes
// @Summary     List recipes
// @Description Returns the user's recipes, newest first. Supports filtering by comma-separated tag and ingredient ids and weak ETags via If-None-Match.
// @Tags        Recipes
// @Produce     json
// @Security    BearerAuth
//
// @Param       tags           query   string  false "Comma-separated tag ids"         example(b3a4...,77f2...)
// @Param       ingredients    query   string  false "Comma-separated ingredient ids"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}  handlers.RecipeSummary
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [get]
func (h *Handlers) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	filter := repo.RecipeFilter{
		TagIDs:        utils.ParseIDList(c.Query("tags")),
		IngredientIDs: utils.ParseIDList(c.Query("ingredients")),
	}

	// ETag pre-check (best effort); only for unfiltered listings, where the
	// stats pair fully determines the result set.
	if db := h.recipeDB(); db != nil && len(filter.TagIDs) == 0 && len(filter.IngredientIDs) == 0 {
		count, maxTS, err := repo.RecipesStats(ctx, db, uid)
		if err == nil {
			// Nanosecond granularity: two updates to the same row inside one
			// second must still produce distinct ETags.
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"recipes:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.recipeSvc.List(ctx, uid, filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, summarize(items))
}

// SearchRecipes godoc
// @ID          searchRecipes
// @Summary     Search recipes
// @Description Ranks the user's recipes by textual similarity of title and description to the query, best match first.
// @Tags        Recipes
// @Produce     json
// @Security    BearerAuth
//
// @Param       q      query  string  true   "Search query"
// @Param       limit  query  int     false  "Maximum results (default 10)"
//
// @Success     200  {array}  handlers.RecipeSummary
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/search [get]
func (h *Handlers) SearchRecipes(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `query parameter "q" required`)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.recipeSvc.Search(c.Request.Context(), userID(c), q, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, summarize(items))
}

// CreateRecipe godoc
// @ID          createRecipe
// @Summary     Create a recipe
// @Description Creates a recipe owned by the current user. Nested tag/ingredient names are resolved to existing labels or created on the fly. Supports Idempotency-Key replays.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Client-chosen key for safe retries"
// @Param       body             body    handlers.CreateRecipeRequest  true  "Recipe payload"
//
// @Success     200  {object} domain.Recipe "Replayed creation"
// @Success     201  {object} domain.Recipe
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes [post]
func (h *Handlers) CreateRecipe(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// Serve a previously completed creation for this key without side effects.
	if middleware.IsReplay(c) {
		if key, has := middleware.GetIdempotencyKey(c); has {
			if db := h.recipeDB(); db != nil {
				if rec, err := repo.GetIdempotency(ctx, db, uid, key, time.Now().UTC()); err == nil {
					if existing, err := h.recipeSvc.Get(ctx, uid, rec.RecipeID); err == nil {
						ok(c, http.StatusOK, existing)
						return
					}
				}
			}
		}
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title, time_minutes, and price required")
		return
	}

	created, err := h.recipeSvc.Create(ctx, uid, services.RecipeInput{
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		if isValidationErr(err) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}

	// Record the key → recipe mapping so retries replay instead of duplicating.
	if key, has := middleware.GetIdempotencyKey(c); has {
		if db := h.recipeDB(); db != nil {
			ttl := h.IdempotencyTTL
			if ttl <= 0 {
				ttl = 24 * time.Hour
			}
			_, _ = repo.CreateIdempotency(ctx, db, uid, key, created.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, created)
}

// GetRecipe godoc
// @ID          getRecipe
// @Summary     Get a recipe
// @Description Returns the full recipe aggregate including description, tags, and ingredients.
// @Tags        Recipes
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Recipe
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [get]
func (h *Handlers) GetRecipe(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	rec, err := h.recipeSvc.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateRecipe godoc
// @ID          updateRecipe
// @Summary     Update a recipe
// @Description Modifies only the fields present in the payload. A present tags/ingredients list (even empty) replaces the association set; an absent list leaves it untouched. Owner cannot be changed.
// @Tags        Recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Recipe ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateRecipeRequest  true  "Fields to update"
//
// @Success     200  {object} domain.Recipe
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [patch]
func (h *Handlers) UpdateRecipe(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.recipeSvc.Update(c.Request.Context(), userID(c), id, services.RecipeUpdate{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecipeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		case isValidationErr(err):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteRecipe godoc
// @ID          deleteRecipe
// @Summary     Delete a recipe
// @Description Removes a recipe and its label associations. The labels themselves survive.
// @Tags        Recipes
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Recipe ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id} [delete]
func (h *Handlers) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	if err := h.recipeSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, services.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// UploadRecipeImage godoc
// @ID          uploadRecipeImage
// @Summary     Upload a recipe image
// @Description Accepts a multipart form with an "image" file, validates it decodes as an image, and attaches it to the recipe.
// @Tags        Recipes
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
//
// @Param       id     path      string  true  "Recipe ID (UUID)"  format(uuid)
// @Param       image  formData  file    true  "Image file"
//
// @Success     200  {object} domain.Recipe
// @Failure     400  {object} handlers.ErrorResponse "Missing or undecodable image"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Recipe not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /recipes/{id}/image [post]
func (h *Handlers) UploadRecipeImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "recipe id must be a UUID")
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `multipart "image" file required`)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cannot read uploaded file")
		return
	}
	defer f.Close()

	rec, err := h.recipeSvc.SaveImage(c.Request.Context(), userID(c), id, fh.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecipeNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "recipe not found")
		case errors.Is(err, services.ErrNotAnImage):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "payload is not a decodable image")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, rec)
}

//
// Helpers
//

// recipeDB exposes the GORM handle when the concrete RecipeService is in
// use; handler-level extras (ETags, idempotency records) degrade gracefully
// when a stub service is injected in tests.
func (h *Handlers) recipeDB() *gorm.DB {
	if svc, ok := h.recipeSvc.(*services.RecipeService); ok {
		return svc.DB
	}
	return nil
}

// isValidationErr reports whether a service error maps to a 400.
func isValidationErr(err error) bool {
	return errors.Is(err, services.ErrInvalidTitle) ||
		errors.Is(err, services.ErrInvalidTime) ||
		errors.Is(err, services.ErrInvalidPrice) ||
		errors.Is(err, services.ErrInvalidDescription) ||
		errors.Is(err, services.ErrInvalidName)
}
