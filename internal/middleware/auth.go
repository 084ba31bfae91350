package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/pkg/response"
)

const (
	ContextUser   = "user"
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

var (
	errNoToken      = response.NewUnauthorized("You are not authorized.")
	errRoleNotAllow = response.NewUnauthorized("You are not authorized to access this resource.")
)

// Authenticator resolves an access token to a usable user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthGuard protects routes with access tokens and role checks.
type AuthGuard struct {
	auth Authenticator
}

func NewAuthGuard(auth Authenticator) *AuthGuard {
	return &AuthGuard{auth: auth}
}

// BearerToken extracts the token from "Bearer <token>". A bare token is
// accepted for older clients.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return header
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Require authenticates the request and admits only the given roles. With no
// roles any authenticated user passes.
func (g *AuthGuard) Require(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Error(errNoToken)
			c.Abort()
			return
		}

		user, err := g.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			c.Error(errRoleNotAllow)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextRole, string(user.Role))

		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(ContextUser); exists {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetEmail gets the current user email from context
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
