package matchmaker

import (
	"errors"
	"net/http"

	"CallBreak/internal/game/rules"
	"CallBreak/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /match/join  body: {tableSize}
func (h *Handler) Join(c *gin.Context) {
	playerID := c.GetString(websocket.CtxPlayerID)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing player identity"})
		return
	}
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, queued, err := h.svc.Join(c.Request.Context(), playerID, req.TableSize)
	switch {
	case errors.Is(err, rules.ErrInvalidPlayerCount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrAlreadyInRoom), errors.Is(err, ErrInGame):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if queued {
		c.JSON(http.StatusOK, JoinResponse{Queued: true, TableSize: req.TableSize})
		return
	}
	c.JSON(http.StatusOK, JoinResponse{
		Queued: false, TableSize: room.TableSize, RoomID: room.ID, Players: room.Players,
	})
}

// POST /match/cancel
func (h *Handler) Cancel(c *gin.Context) {
	playerID := c.GetString(websocket.CtxPlayerID)
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing player identity"})
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), playerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
