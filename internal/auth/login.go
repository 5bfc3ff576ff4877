package auth

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"CallBreak/internal/utils"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
)

// LoginMessage is the text a wallet signs, followed by the nonce.
const LoginMessage = "Sign this message to authenticate with CallBreak. Nonce: "

type LoginRequest struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
}

type Handler struct {
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	nonces map[string]time.Time // nonce -> expiry
}

func NewHandler(secret []byte, ttl time.Duration) *Handler {
	return &Handler{
		secret: secret,
		ttl:    ttl,
		nonces: make(map[string]time.Time),
	}
}

// POST /auth/login  body: {address, signature, nonce}
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !h.takeNonce(req.Nonce) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid nonce"})
		return
	}

	recovered, err := recoverAddress(LoginMessage+req.Nonce, req.Signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verify failed"})
		return
	}
	if !strings.EqualFold(recovered, req.Address) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature mismatch"})
		return
	}

	jwtStr, err := IssueToken(h.secret, recovered, shortAddress(recovered), h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt generation failed"})
		return
	}
	utils.Log.Info("wallet login", "player", recovered)
	c.JSON(http.StatusOK, gin.H{"jwt": jwtStr, "playerId": recovered})
}

// recoverAddress returns the signer of a personal_sign message.
func recoverAddress(msg, signature string) (string, error) {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	hash := crypto.Keccak256Hash([]byte(prefixed))

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return "", err
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("signature length %d", len(sig))
	}
	// wallets send V as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
