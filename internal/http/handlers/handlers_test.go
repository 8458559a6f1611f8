package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/go-recipe-backend/internal/domain"
	"github.com/recipehub/go-recipe-backend/internal/http/middleware"
	"github.com/recipehub/go-recipe-backend/internal/repo"
	"github.com/recipehub/go-recipe-backend/internal/services"
)

//
// Service stubs. Each method delegates to an optional function field so a
// test can script exactly the calls it cares about.
//

type stubUserSvc struct {
	registerFn func(ctx context.Context, email, name, password string) (*domain.User, error)
	authFn     func(ctx context.Context, email, password string) (string, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, id string, in services.ProfileUpdate) (*domain.User, error)
}

func (s *stubUserSvc) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, name, password)
}
func (s *stubUserSvc) Authenticate(ctx context.Context, email, password string) (string, error) {
	return s.authFn(ctx, email, password)
}
func (s *stubUserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}
func (s *stubUserSvc) UpdateProfile(ctx context.Context, id string, in services.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

type stubRecipeSvc struct {
	createFn    func(ctx context.Context, userID string, in services.RecipeInput) (*domain.Recipe, error)
	updateFn    func(ctx context.Context, userID, id string, in services.RecipeUpdate) (*domain.Recipe, error)
	listFn      func(ctx context.Context, userID string, f repo.RecipeFilter) ([]domain.Recipe, error)
	searchFn    func(ctx context.Context, userID, query string, limit int) ([]domain.Recipe, error)
	getFn       func(ctx context.Context, userID, id string) (*domain.Recipe, error)
	deleteFn    func(ctx context.Context, userID, id string) error
	saveImageFn func(ctx context.Context, userID, id, filename string, r io.Reader) (*domain.Recipe, error)
}

func (s *stubRecipeSvc) Create(ctx context.Context, userID string, in services.RecipeInput) (*domain.Recipe, error) {
	return s.createFn(ctx, userID, in)
}
func (s *stubRecipeSvc) Update(ctx context.Context, userID, id string, in services.RecipeUpdate) (*domain.Recipe, error) {
	return s.updateFn(ctx, userID, id, in)
}
func (s *stubRecipeSvc) List(ctx context.Context, userID string, f repo.RecipeFilter) ([]domain.Recipe, error) {
	return s.listFn(ctx, userID, f)
}
func (s *stubRecipeSvc) Search(ctx context.Context, userID, query string, limit int) ([]domain.Recipe, error) {
	return s.searchFn(ctx, userID, query, limit)
}
func (s *stubRecipeSvc) Get(ctx context.Context, userID, id string) (*domain.Recipe, error) {
	return s.getFn(ctx, userID, id)
}
func (s *stubRecipeSvc) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}
func (s *stubRecipeSvc) SaveImage(ctx context.Context, userID, id, filename string, r io.Reader) (*domain.Recipe, error) {
	return s.saveImageFn(ctx, userID, id, filename, r)
}

type stubLabelSvc[T any] struct {
	listFn   func(ctx context.Context, userID string, assignedOnly bool) ([]T, error)
	renameFn func(ctx context.Context, userID, id, name string) (*T, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *stubLabelSvc[T]) List(ctx context.Context, userID string, assignedOnly bool) ([]T, error) {
	return s.listFn(ctx, userID, assignedOnly)
}
func (s *stubLabelSvc[T]) Rename(ctx context.Context, userID, id, name string) (*T, error) {
	return s.renameFn(ctx, userID, id, name)
}
func (s *stubLabelSvc[T]) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

//
// Router / request helpers
//

// newHandlerRouter mounts the handlers on a bare engine. A stand-in for the
// auth middleware copies the X-User-ID header into the context key that
// userID() reads; production code itself never trusts the header.
func newHandlerRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if u := c.GetHeader("X-User-ID"); u != "" {
			c.Set(middleware.ContextUserIDKey, u)
		}
		c.Next()
	})

	r.POST("/users", h.RegisterUser)
	r.POST("/users/token", h.CreateToken)
	r.GET("/users/me", h.Me)
	r.PATCH("/users/me", h.UpdateMe)

	r.GET("/recipes", h.ListRecipes)
	r.GET("/recipes/search", h.SearchRecipes)
	r.POST("/recipes", h.CreateRecipe)
	r.GET("/recipes/:id", h.GetRecipe)
	r.PATCH("/recipes/:id", h.UpdateRecipe)
	r.DELETE("/recipes/:id", h.DeleteRecipe)
	r.POST("/recipes/:id/image", h.UploadRecipeImage)

	r.GET("/tags", h.ListTags)
	r.PATCH("/tags/:id", h.UpdateTag)
	r.DELETE("/tags/:id", h.DeleteTag)

	r.GET("/ingredients", h.ListIngredients)
	r.PATCH("/ingredients/:id", h.UpdateIngredient)
	r.DELETE("/ingredients/:id", h.DeleteIngredient)

	return r
}

// doJSON performs a JSON request as the given user and returns the recorder.
func doJSON(t *testing.T, r *gin.Engine, method, path, user string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// multipartImage builds a multipart body with one "image" file part.
func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
