package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const nonceTTL = 5 * time.Minute

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GET|POST /auth/nonce
func (h *Handler) Nonce(c *gin.Context) {
	nonce, err := generateNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate nonce"})
		return
	}

	h.mu.Lock()
	now := time.Now()
	for n, exp := range h.nonces {
		if now.After(exp) {
			delete(h.nonces, n)
		}
	}
	h.nonces[nonce] = now.Add(nonceTTL)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// takeNonce consumes a nonce; each one is good for a single login.
func (h *Handler) takeNonce(nonce string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	exp, ok := h.nonces[nonce]
	delete(h.nonces, nonce)
	return ok && time.Now().Before(exp)
}
