package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// staticVerifier accepts exactly one token.
type staticVerifier struct {
	token  string
	userID string
}

func (v staticVerifier) Verify(token string) (string, error) {
	if token == v.token {
		return v.userID, nil
	}
	return "", errors.New("bad token")
}

func newAuthRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seenUserID string
	r.GET("/private", RequireAuth(staticVerifier{token: "good-token", userID: "u1"}), func(c *gin.Context) {
		seenUserID = c.GetString(ContextUserIDKey)
		c.Status(http.StatusOK)
	})
	return r, &seenUserID
}

func TestRequireAuth_Rejections(t *testing.T) {
	r, _ := newAuthRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "good-token"},
		{"empty token", "Bearer   "},
		{"wrong token", "Bearer nope"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"code":"unauthorized"`) {
				t.Fatalf("expected unauthorized envelope, got %s", w.Body.String())
			}
		})
	}
}

func TestRequireAuth_ValidToken_SetsUserID(t *testing.T) {
	r, seen := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if *seen != "u1" {
		t.Fatalf("handler saw userID %q, want u1", *seen)
	}
}
