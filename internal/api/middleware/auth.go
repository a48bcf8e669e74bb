package middleware

import (
	"net/http"
	"strings"

	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	GuestKey  = "guest"
)

func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(GuestKey, claims.Guest)
		c.Next()
	}
}

// GetUserID пустая строка, если запрос прошел мимо Auth
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func IsGuest(c *gin.Context) bool {
	return c.GetBool(GuestKey)
}
