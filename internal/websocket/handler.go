package websocket

import (
	"net/http"

	"CallBreak/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Context keys set by the JWT middleware.
const (
	CtxPlayerID   = "playerID"
	CtxPlayerName = "playerName"
)

// GET /ws  (JWT middleware runs first and injects the player identity)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID := c.GetString(CtxPlayerID)
		if playerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing player identity"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Log.Warn("websocket upgrade failed", "player", playerID, "err", err)
			return
		}

		NewClient(hub, conn, playerID, c.GetString(CtxPlayerName)).Start()
	}
}
