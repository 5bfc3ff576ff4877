package auth

import (
	"net/http"
	"strings"

	"CallBreak/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxNameLength = 24

type GuestRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /auth/guest  body: {name}
func (h *Handler) Guest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || len([]rune(name)) > maxNameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-24 characters"})
		return
	}

	playerID := uuid.NewString()
	jwtStr, err := IssueToken(h.secret, playerID, name, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}
	utils.Log.Debug("guest login", "player", playerID, "name", name)
	c.JSON(http.StatusOK, gin.H{"jwt": jwtStr, "playerId": playerID})
}
