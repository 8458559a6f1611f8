// Package services defines the business logic for users, recipes, tags, and
// ingredients. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"

	"github.com/recipehub/go-recipe-backend/internal/storage"
)

// User and authentication errors.
var (
	// ErrEmailTaken is returned when signup or a profile update collides
	// with an existing account email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned when an email address fails basic
	// structural validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrShortPassword is returned when a password is below the minimum
	// length.
	ErrShortPassword = errors.New("password too short")

	// ErrInvalidCredentials is returned when email/password authentication
	// fails. The cause (unknown email vs. wrong password) is deliberately
	// not distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Recipe errors.
var (
	// ErrRecipeNotFound indicates that the requested recipe does not exist
	// or is not accessible to the current user.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidTitle is returned when a recipe title is empty or exceeds
	// the maximum length.
	ErrInvalidTitle = errors.New("invalid title")

	// ErrInvalidTime is returned when time_minutes is negative.
	ErrInvalidTime = errors.New("time_minutes must be >= 0")

	// ErrInvalidPrice is returned when a price is negative or exceeds the
	// configured precision/scale.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidDescription is returned when a description exceeds the
	// maximum length.
	ErrInvalidDescription = errors.New("description too long")

	// ErrNotAnImage is returned when an uploaded payload cannot be decoded
	// as an image. It is the storage sentinel so errors.Is works at either
	// layer.
	ErrNotAnImage = storage.ErrNotAnImage
)

// Label (tag/ingredient) errors.
var (
	// ErrTagNotFound indicates that the requested tag does not exist or is
	// not accessible to the current user.
	ErrTagNotFound = errors.New("tag not found")

	// ErrIngredientNotFound indicates that the requested ingredient does not
	// exist or is not accessible to the current user.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrInvalidName is returned when a label name is empty or exceeds the
	// maximum length.
	ErrInvalidName = errors.New("invalid name")

	// ErrDuplicateName is returned when renaming a label would collide with
	// another label of the same user.
	ErrDuplicateName = errors.New("name already in use")
)
