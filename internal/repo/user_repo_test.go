package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/recipehub/go-recipe-backend/internal/domain"
)

func TestCreateUser_AndDuplicateEmail(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "owner@example.com", "Owner", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Email != "owner@example.com" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := CreateUser(ctx, db, "owner@example.com", "Other", "hash2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on email reuse, got %v", err)
	}
}

func TestGetUser_ByIDAndEmail(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "owner@example.com", "Owner", "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	byID, err := GetUser(ctx, db, u.ID)
	if err != nil || byID.Email != "owner@example.com" {
		t.Fatalf("GetUser: err=%v got=%+v", err, byID)
	}
	byEmail, err := GetUserByEmail(ctx, db, "owner@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("GetUserByEmail: err=%v got=%+v", err, byEmail)
	}

	if _, err := GetUser(ctx, db, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing id, got %v", err)
	}
	if _, err := GetUserByEmail(ctx, db, "nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing email, got %v", err)
	}
}

func TestUpdateUser_ColumnsAndNotFound(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	u, err := CreateUser(ctx, db, "owner@example.com", "Owner", "hash")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := UpdateUser(ctx, db, u.ID, map[string]any{"name": "Renamed", "password_hash": "hash2"}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, err := GetUser(ctx, db, u.ID)
	if err != nil || got.Name != "Renamed" || got.PasswordHash != "hash2" {
		t.Fatalf("readback after update: err=%v got=%+v", err, got)
	}

	if err := UpdateUser(ctx, db, "missing", map[string]any{"name": "X"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing user, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	n, err := CountUsers(ctx, db)
	if err != nil || n != 0 {
		t.Fatalf("empty table: n=%d err=%v", n, err)
	}
	if _, err := CreateUser(ctx, db, "a@example.com", "A", "h"); err != nil {
		t.Fatalf("seed a: %v", err)
	}
	if _, err := CreateUser(ctx, db, "b@example.com", "B", "h"); err != nil {
		t.Fatalf("seed b: %v", err)
	}
	n, err = CountUsers(ctx, db)
	if err != nil || n != 2 {
		t.Fatalf("after seeding: n=%d err=%v", n, err)
	}
}
