// User HTTP handlers.
//
// This file exposes the REST endpoints for account management:
//   - POST /users        (signup, public)
//   - POST /users/token  (obtain bearer token, public)
//   - GET  /users/me     (own profile)
//   - PUT/PATCH /users/me (partial profile update)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// the UserService, and translate service errors into HTTP results. Password
// fields are write-only; the domain.User JSON shape never includes a hash.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/go-recipe-backend/internal/services"
)

// RegisterUserRequest is the JSON payload for creating an account.
type RegisterUserRequest struct {
	Email    string `json:"email"    binding:"required,email"    example:"test@example.com"`
	Name     string `json:"name"     binding:"required,max=255"  example:"Test name"`
	Password string `json:"password" binding:"required,min=6"    example:"test123"`
}

// CreateTokenRequest is the JSON payload for obtaining a bearer token.
type CreateTokenRequest struct {
	Email    string `json:"email"    binding:"required" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"test123"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is the JSON payload for updating the caller's own
// profile. Absent fields are left untouched.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"    example:"new@example.com"`
	Name     *string `json:"name,omitempty"     example:"New name"`
	Password *string `json:"password,omitempty" example:"newpass123"`
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Create a new account
// @Description Registers a user with email, name, and password. Emails are unique; the domain part is lowercased.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterUserRequest  true  "Signup payload"
//
// @Success     201  {object} domain.User
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or email taken"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email, name, and password (min 6 chars) required")
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrShortPassword):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, u)
}

// CreateToken godoc
// @ID          createToken
// @Summary     Obtain a bearer token
// @Description Verifies email/password credentials and returns a signed token for the Authorization header.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateTokenRequest  true  "Credentials"
//
// @Success     200  {object} handlers.TokenResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing or invalid credentials"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/token [post]
func (h *Handlers) CreateToken(c *gin.Context) {
	var req CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	token, err := h.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Bad credentials are a 400 here, not a 401: the request is
		// unauthenticated by definition and carries its own credentials.
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid credentials")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, TokenResponse{Token: token})
}

// Me godoc
// @ID          getProfile
// @Summary     Get own profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object} domain.User
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateMe godoc
// @ID          updateProfile
// @Summary     Update own profile
// @Description Applies a partial update to the caller's profile; a new password is re-hashed.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.UpdateProfileRequest  true  "Fields to update"
//
// @Success     200  {object} domain.User
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /users/me [patch]
func (h *Handlers) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID(c), services.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrShortPassword):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, u)
}
