// Tag HTTP handlers.
//
// Endpoints:
//   - GET    /tags       (list, newest name first, assigned_only filter)
//   - PATCH  /tags/{id}  (rename)
//   - DELETE /tags/{id}  (delete, detaches from recipes)
//
// Tags are created implicitly through recipe writes; there is no POST /tags.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/go-recipe-backend/internal/services"
	"github.com/recipehub/go-recipe-backend/internal/sysutil"
)

// RenameLabelRequest is the JSON payload for renaming a tag or ingredient.
// Only the name is writable; any owner field in the payload is ignored.
type RenameLabelRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Dessert"`
}

// ListTags godoc
// @ID          listTags
// @Summary     List tags
// @Description Returns the user's tags ordered by name descending. With assigned_only, only tags attached to at least one recipe are returned.
// @Tags        Tags
// @Produce     json
// @Security    BearerAuth
//
// @Param       assigned_only  query  string  false  "Truthy value (1/true/yes) restricts to assigned tags"
//
// @Success     200  {array}  domain.Tag
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags [get]
func (h *Handlers) ListTags(c *gin.Context) {
	assignedOnly := sysutil.IsTruthy(c.Query("assigned_only"))
	items, err := h.tagSvc.List(c.Request.Context(), userID(c), assignedOnly)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UpdateTag godoc
// @ID          updateTag
// @Summary     Rename a tag
// @Description Updates the tag name. Renaming onto an existing tag of the same user is rejected.
// @Tags        Tags
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Tag ID (UUID)"  format(uuid)
// @Param       body  body  handlers.RenameLabelRequest  true  "New name"
//
// @Success     200  {object} domain.Tag
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or duplicate name"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Tag not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags/{id} [patch]
func (h *Handlers) UpdateTag(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tag id must be a UUID")
		return
	}
	var req RenameLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}

	tag, err := h.tagSvc.Rename(c.Request.Context(), userID(c), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTagNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
		case errors.Is(err, services.ErrInvalidName), errors.Is(err, services.ErrDuplicateName):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, tag)
}

// DeleteTag godoc
// @ID          deleteTag
// @Summary     Delete a tag
// @Description Removes a tag and detaches it from any recipes that referenced it.
// @Tags        Tags
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Tag ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid id"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Tag not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tags/{id} [delete]
func (h *Handlers) DeleteTag(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tag id must be a UUID")
		return
	}
	if err := h.tagSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tag not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
