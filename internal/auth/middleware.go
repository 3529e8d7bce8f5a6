package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/config"
	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

const identityKey = "auth.user"

func openPath(p string) bool {
	// Keep infra endpoints open.
	if p == "/healthz" || p == "/readyz" || p == "/docs" {
		return true
	}
	switch p {
	case "/api/auth/register", "/api/auth/login", "/api/auth/logout":
		return true
	}
	return false
}

// Middleware resolves the bearer token to a user and stores it in the
// gin context for the handlers behind /api/.
func Middleware(cfg config.AuthConfig, tokens TokenManager, repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if cfg.Disabled || openPath(p) || !strings.HasPrefix(p, "/api/") {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		user, err := repo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Middleware, nil when the
// request was not authenticated.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
