package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/his-platform/inventory-service/pkg/errors"
	"github.com/his-platform/inventory-service/pkg/logging"
)

// TokenPrincipal is the identity extracted from a verified access token
type TokenPrincipal struct {
	UserID   string
	Username string
	Role     string
}

// TokenVerifier validates a bearer token and returns the principal it
// represents. Implementations must reject expired or tampered tokens.
type TokenVerifier func(token string) (*TokenPrincipal, error)

// RequireAuth middleware enforces a valid bearer token on the request.
// The verified principal is stored in the gin context and the request
// context so downstream handlers and logs can attribute the caller.
func RequireAuth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			AbortWithAppError(c, errors.ErrUnauthorized("missing bearer token"))
			return
		}

		principal, err := verify(token)
		if err != nil {
			AbortWithAppError(c, errors.ErrUnauthorized("invalid or expired token"))
			return
		}

		c.Set(ContextKeyUserID, principal.UserID)
		c.Set(ContextKeyUsername, principal.Username)
		c.Set(ContextKeyUserRole, principal.Role)
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), principal.UserID))

		c.Next()
	}
}

// RequireRole middleware restricts a route to the given roles. It must be
// registered after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, _ := c.Get(ContextKeyUserRole)
		roleStr, _ := role.(string)

		if !allowed[roleStr] {
			AbortWithAppError(c, errors.ErrForbidden("insufficient permissions"))
			return
		}

		c.Next()
	}
}

// GetPrincipal returns the authenticated principal from the gin context,
// or nil when the request is unauthenticated.
func GetPrincipal(c *gin.Context) *TokenPrincipal {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil
	}

	username, _ := c.Get(ContextKeyUsername)
	role, _ := c.Get(ContextKeyUserRole)

	id, _ := userID.(string)
	name, _ := username.(string)
	roleStr, _ := role.(string)

	return &TokenPrincipal{UserID: id, Username: name, Role: roleStr}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
