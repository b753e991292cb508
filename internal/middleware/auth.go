package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/handler"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/auth"
)

// ContextIdentity is the gin context key holding the resolved identity.
const ContextIdentity = "identity"

type AuthMiddleware struct {
	tokens *auth.TokenService
}

func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate verifies the bearer credential and stores the caller's
// identity in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		identity, err := access.IdentityFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// Identity extracts the identity set by Authenticate. The bool is false on
// routes that skipped authentication.
func Identity(c *gin.Context) (access.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return access.Identity{}, false
	}
	identity, ok := v.(access.Identity)
	return identity, ok
}

// RequireRoles rejects callers whose role is not in the allow list.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
	}
}

// RequireStaff rejects OWNER-role callers.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(model.RoleAdmin, model.RoleVeterinarian, model.RoleReceptionist)
}
