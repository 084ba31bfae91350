package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/pkg/response"
)

// fakeAuth accepts a fixed set of tokens.
type fakeAuth struct {
	users map[string]*models.User
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, response.NewUnauthorized("Invalid or expired token.")
}

func newGuardRouter(roles ...models.Role) *gin.Engine {
	admin := &models.User{Base: models.Base{ID: "u-admin"}, Email: "admin@smd.test", Role: models.RoleAdmin}
	client := &models.User{Base: models.Base{ID: "u-client"}, Email: "client@smd.test", Role: models.RoleClient}
	guard := NewAuthGuard(&fakeAuth{users: map[string]*models.User{"admin-token": admin, "client-token": client}})

	router := gin.New()
	router.Use(ErrorHandler(false))
	router.GET("/test", guard.Require(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    GetUserID(c),
			"email": GetEmail(c),
			"role":  GetRole(c),
			"user":  CurrentUser(c) != nil,
		})
	})
	return router
}

func doAuthRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequire_NoHeader(t *testing.T) {
	w := doAuthRequest(newGuardRouter(), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequire_InvalidToken(t *testing.T) {
	tests := []string{"Bearer nope", "Basic admin-token", "nope"}
	for _, header := range tests {
		t.Run(header, func(t *testing.T) {
			w := doAuthRequest(newGuardRouter(), header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}
}

func TestRequire_ValidToken(t *testing.T) {
	tests := []string{"Bearer admin-token", "bearer admin-token", "admin-token"}
	for _, header := range tests {
		t.Run(header, func(t *testing.T) {
			w := doAuthRequest(newGuardRouter(models.RoleSuperAdmin, models.RoleAdmin), header)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
			}
			expected := `{"email":"admin@smd.test","id":"u-admin","role":"ADMIN","user":true}`
			if w.Body.String() != expected {
				t.Errorf("body = %s, expected %s", w.Body.String(), expected)
			}
		})
	}
}

func TestRequire_RoleNotAllowed(t *testing.T) {
	w := doAuthRequest(newGuardRouter(models.RoleSuperAdmin, models.RoleAdmin), "Bearer client-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequire_AnyRole(t *testing.T) {
	w := doAuthRequest(newGuardRouter(), "Bearer client-token")
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"Bearer   abc ", "abc"},
		{"abc", "abc"},
		{"Token abc", ""},
	}
	for _, tt := range tests {
		if got := BearerToken(tt.header); got != tt.expected {
			t.Errorf("BearerToken(%q) = %q, expected %q", tt.header, got, tt.expected)
		}
	}
}

func TestContextHelpers_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentUser(c) != nil {
		t.Error("CurrentUser should be nil without authentication")
	}
	if GetUserID(c) != "" || GetEmail(c) != "" || GetRole(c) != "" {
		t.Error("context helpers should return empty strings without authentication")
	}
}

func TestContextConstants(t *testing.T) {
	if ContextUserID != "user_id" {
		t.Errorf("ContextUserID = %q, expected %q", ContextUserID, "user_id")
	}
	if ContextEmail != "email" {
		t.Errorf("ContextEmail = %q, expected %q", ContextEmail, "email")
	}
	if ContextRole != "role" {
		t.Errorf("ContextRole = %q, expected %q", ContextRole, "role")
	}
}
