package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CallBreak/internal/auth"
	"CallBreak/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JwtAuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":   c.GetString(websocket.CtxPlayerID),
			"name": c.GetString(websocket.CtxPlayerName),
		})
	})
	return r
}

func get(r http.Handler, url, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJwtAuthMiddleware(t *testing.T) {
	r := newRouter()
	tok, err := auth.IssueToken(secret, "p1", "Alice", time.Hour)
	require.NoError(t, err)

	w := get(r, "/me", "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"p1","name":"Alice"}`, w.Body.String())

	w = get(r, "/me?token="+tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJwtAuthMiddlewareRejects(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer nonsense").Code)

	other, _ := auth.IssueToken([]byte("other"), "p1", "Alice", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+other).Code)

	expired, _ := auth.IssueToken(secret, "p1", "Alice", -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+expired).Code)
}
