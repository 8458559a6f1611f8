// Package domain defines the persistence models for users, recipes, tags,
// and ingredients. These types are mapped with GORM and form the core data
// layer of the recipe application.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account that owns recipes, tags, and ingredients.
// Authentication resolves requests to a User; every other entity in the
// system is scoped to its owning user.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier; the domain part is stored lowercased.
//   - Name: display name.
//   - PasswordHash: bcrypt hash; never serialized.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string    `json:"name"  gorm:"type:varchar(255);not null"`
	PasswordHash string    `json:"-"     gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Tag is a user-owned label attached to recipes. The (user_id, name) pair is
// unique: concurrent find-or-create requests for the same name race on this
// index and the loser falls back to a lookup.
type Tag struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_tags_user_name"`
	Name      string    `json:"name"    gorm:"type:varchar(255);not null;uniqueIndex:ux_tags_user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owning account. Tags are cascade-deleted with their owner.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Ingredient is a user-owned label attached to recipes. It shares the
// find-or-create semantics of Tag, including the (user_id, name) uniqueness
// constraint.
type Ingredient struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_ingredients_user_name"`
	Name      string    `json:"name"    gorm:"type:varchar(255);not null;uniqueIndex:ux_ingredients_user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owning account. Ingredients are cascade-deleted with their owner.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Recipe is the aggregate root of the application. Tags and ingredients are
// many-to-many associations; the association sets are replaced wholesale on
// update when the corresponding field is present in the request payload.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner; immutable after creation (never taken from request bodies).
//   - Title: required, bounded at 255 chars.
//   - TimeMinutes: non-negative preparation time.
//   - Price: fixed-point decimal(5,2).
//   - Description: optional free text, bounded at 2000 chars.
//   - ImagePath: optional path of the uploaded image, relative to the media root.
type Recipe struct {
	ID          string          `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string          `json:"user_id"      gorm:"type:char(36);not null;index:idx_user_recipes"`
	Title       string          `json:"title"        gorm:"type:varchar(255);not null"`
	TimeMinutes int             `json:"time_minutes" gorm:"not null;check:time_minutes >= 0"`
	Price       decimal.Decimal `json:"price"        gorm:"type:decimal(5,2);not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	ImagePath   string          `json:"image,omitempty"       gorm:"type:varchar(512)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Deleting a recipe removes its association rows but never the labels
	// themselves; deleting a label detaches it from all recipes.
	Tags        []Tag        `json:"tags,omitempty"        gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []Ingredient `json:"ingredients,omitempty" gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE"`

	// User is the owning account. Recipes are cascade-deleted with their owner.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }
