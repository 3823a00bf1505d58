package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares. LoggingMiddleware picks up
// org_id from the same key for per-request log correlation.
const (
	CtxUserID = "user_id"
	CtxOrgID  = "org_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// ValidateServiceToken compares a presented token against the expected one
func ValidateServiceToken(token, expected string) error {
	if expected == "" || token != expected {
		return ErrUnauthenticated
	}
	return nil
}

// ServiceAuthMiddleware validates service-to-service auth tokens
func ServiceAuthMiddleware(expectedToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Abort()
			return
		}

		if err := ValidateServiceToken(token, expectedToken); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid service token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// JWTAuthMiddleware validates JWT tokens for dashboard sessions and falls back
// to the service token for service-to-service calls. The resolved identity is
// injected into the Gin context.
func JWTAuthMiddleware(secret []byte, serviceToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Abort()
			return
		}

		claims, err := ValidateJWT(token, secret)
		if err == nil {
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxOrgID, claims.OrganizationID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			c.Next()
			return
		}

		if serviceToken != "" && ValidateServiceToken(token, serviceToken) == nil {
			c.Set(CtxRole, "service")
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid JWT token"})
		c.Abort()
	}
}

// bearerToken extracts the Bearer token, writing the 401 itself when the
// header is missing or malformed.
func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization header"})
		return "", false
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
		return "", false
	}

	return parts[1], true
}
