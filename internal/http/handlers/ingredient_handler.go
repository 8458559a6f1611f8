// Ingredient HTTP handlers.
//
// Endpoints:
//   - GET    /ingredients       (list, assigned_only filter)
//   - PATCH  /ingredients/{id}  (rename)
//   - DELETE /ingredients/{id}  (delete, detaches from recipes)
//
// Like tags, ingredients are created implicitly through recipe writes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/go-recipe-backend/internal/services"
	"github.com/recipehub/go-recipe-backend/internal/sysutil"
)

// ListIngredients godoc
// @ID          listIngredients
// @Summary     List ingredients
// @Description Returns the user's ingredients ordered by name descending. With assigned_only, only ingredients attached to at least one recipe are returned.
// @Tags        Ingredients
// @Produce     json
// @Security    BearerAuth
//
// @Param       assigned_only  query  string  false  "Truthy value (1/true/yes) restricts to assigned ingredients"
//
// @Success     200  {array}  domain.Ingredient
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients [get]
func (h *Handlers) ListIngredients(c *gin.Context) {
	assignedOnly := sysutil.IsTruthy(c.Query("assigned_only"))
	items, err := h.ingredientSvc.List(c.Request.Context(), userID(c), assignedOnly)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UpdateIngredient godoc
// @ID          updateIngredient
// @Summary     Rename an ingredient
// @Description Updates the ingredient name. Renaming onto an existing ingredient of the same user is rejected.
// @Tags        Ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Ingredient ID (UUID)"  format(uuid)
// @Param       body  body  handlers.RenameLabelRequest  true  "New name"
//
// @Success     200  {object} domain.Ingredient
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or duplicate name"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Ingredient not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients/{id} [patch]
func (h *Handlers) UpdateIngredient(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ingredient id must be a UUID")
		return
	}
	var req RenameLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	ing, err := h.ingredientSvc.Rename(c.Request.Context(), userID(c), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIngredientNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ingredient not found")
		case errors.Is(err, services.ErrInvalidName), errors.Is(err, services.ErrDuplicateName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ing)
}

// DeleteIngredient godoc
// @ID          deleteIngredient
// @Summary     Delete an ingredient
// @Description Removes an ingredient and detaches it from any recipes that referenced it.
// @Tags        Ingredients
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Ingredient ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Ingredient not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ingredients/{id} [delete]
func (h *Handlers) DeleteIngredient(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ingredient id must be a UUID")
		return
	}
	if err := h.ingredientSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, services.ErrIngredientNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ingredient not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
