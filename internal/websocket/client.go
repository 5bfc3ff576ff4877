package websocket

import (
	"time"

	"CallBreak/internal/utils"

	"github.com/gorilla/websocket"
)

type Client struct {
	PlayerID string
	Name     string
	Conn     *websocket.Conn
	Send     chan OutgoingMessage
	Hub      *Hub
}

const (
	writeWait      = 10 * time.Second    // per-write timeout
	pongWait       = 60 * time.Second    // read timeout
	pingPeriod     = (pongWait * 9) / 10 // heartbeat
	maxMessageSize = 1024 * 4
	sendBuffer     = 32
)

// NewClient wires a connection to the hub; call Start to run the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, playerID, name string) *Client {
	return &Client{
		PlayerID: playerID,
		Name:     name,
		Conn:     conn,
		Send:     make(chan OutgoingMessage, sendBuffer),
		Hub:      hub,
	}
}

// Start registers the client and launches its pumps.
func (c *Client) Start() {
	c.Hub.Register(c)
	go c.writePump()
	go c.readPump()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg IncomingMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Log.Warn("websocket read failed", "player", c.PlayerID, "err", err)
			}
			return
		}
		msg.From = c.PlayerID
		c.Hub.dispatch(msg)
	}
}
