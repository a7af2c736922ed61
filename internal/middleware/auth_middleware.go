package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/service"
)

// TokenValidator checks a signed token of the given type.
type TokenValidator interface {
	ValidateToken(tokenString, tokenType string) (*service.TokenClaims, error)
}

// AuthMiddleware requires a valid bearer access token.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
			c.Abort()
			return
		}

		bearerToken := strings.SplitN(authHeader, " ", 2)
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(bearerToken[1]), service.TokenTypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// WriteAuthMiddleware applies AuthMiddleware to unsafe methods only, so
// the storefront can keep reading without credentials.
func WriteAuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	requireAuth := AuthMiddleware(tokens)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			requireAuth(c)
		}
	}
}
