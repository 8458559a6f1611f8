// Package services – UserService
//
// This file implements the UserService, which manages account signup, email
// normalization, password hashing (bcrypt), credential verification, and
// profile self-management. Service-level errors (e.g. ErrEmailTaken,
// ErrInvalidCredentials) are returned for predictable cases so handlers can
// map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/repo"
)

// UserService provides account-level operations: signup, authentication,
// and profile updates. Passwords are stored only as bcrypt hashes.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Tokens issues bearer tokens on successful authentication.
	Tokens *TokenService

	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen int
	// BcryptCost overrides bcrypt.DefaultCost when > 0.
	BcryptCost int
}

// NewUserService constructs a UserService with sane defaults.
func NewUserService(db *gorm.DB, tokens *TokenService) *UserService {
	return &UserService{
		DB:             db,
		Tokens:         tokens,
		MinPasswordLen: 6,
	}
}

// NormalizeEmail lowercases the domain part of an email address, leaving the
// local part untouched, and trims surrounding whitespace.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// Register creates a new account. The email is normalized and must be
// unique; the password is validated for minimum length and bcrypt-hashed.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < s.MinPasswordLen {
		return nil, ErrShortPassword
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	u, err := repo.CreateUser(ctx, s.DB, email, strings.TrimSpace(name), hash)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies email/password credentials and returns a signed
// bearer token for the matching user. Unknown emails and wrong passwords are
// both reported as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	u, err := repo.GetUserByEmail(ctx, s.DB, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.Tokens.Issue(u.ID)
}

// Get returns the user with the given id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ProfileUpdate carries the updatable profile fields; nil fields are left
// untouched (partial-update semantics).
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// UpdateProfile applies a partial update to the user's own profile. A new
// password is re-validated and re-hashed; a new email is normalized and must
// remain unique.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*domain.User, error) {
	updates := map[string]any{}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, ErrInvalidEmail
		}
		updates["email"] = email
	}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		if len(*in.Password) < s.MinPasswordLen {
			return nil, ErrShortPassword
		}
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if len(updates) > 0 {
		if err := repo.UpdateUser(ctx, s.DB, id, updates); err != nil {
			switch {
			case errors.Is(err, repo.ErrDuplicate):
				return nil, ErrEmailTaken
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrUserNotFound
			default:
				return nil, err
			}
		}
	}
	return s.Get(ctx, id)
}

// hash bcrypt-hashes a password with the configured cost.
func (s *UserService) hash(password string) (string, error) {
	cost := s.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}
