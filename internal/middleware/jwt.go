package middleware

import (
	"net/http"
	"strings"

	"CallBreak/internal/auth"
	"CallBreak/internal/websocket"

	"github.com/gin-gonic/gin"
)

// JwtAuthMiddleware accepts "Authorization: Bearer <jwt>" or, for browser
// websocket upgrades that cannot set headers, "?token=<jwt>".
func JwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		playerID, name, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(websocket.CtxPlayerID, playerID)
		c.Set(websocket.CtxPlayerName, name)
		c.Next()
	}
}
