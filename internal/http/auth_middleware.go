package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlasfield/fieldops/internal/security"
)

// adminClaimsKey is the gin context key holding validated admin claims.
const adminClaimsKey = "adminClaims"

// AdminAuthMiddleware validates the Bearer token on admin API requests.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, errParse := security.ParseAdminToken(secret, token)
		if errParse != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errParse.Error()})
			return
		}
		c.Set(adminClaimsKey, claims)
		c.Next()
	}
}

// AdminActor returns the acting admin username from the request context,
// or "system" when unauthenticated paths reach a handler.
func AdminActor(c *gin.Context) string {
	v, exists := c.Get(adminClaimsKey)
	if !exists {
		return "system"
	}
	claims, ok := v.(*security.AdminClaims)
	if !ok || claims == nil || strings.TrimSpace(claims.Username) == "" {
		return "system"
	}
	return claims.Username
}
