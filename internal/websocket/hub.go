package websocket

import (
	"sync"

	"CallBreak/internal/utils"
)

type HubInterface interface {
	BroadcastToPlayers(playerIDs []string, msg OutgoingMessage)
	ClientByPlayer(playerID string) (*Client, bool)
	SendToPlayer(playerID string, msg OutgoingMessage)
	Close()
}

// Hub tracks one connection per player. Sends never block: a client whose
// buffer is full misses the frame and catches up on the next snapshot.
type Hub struct {
	clients      map[string]*Client // player id -> client
	register     chan *Client
	unregister   chan *Client
	OnIncoming   func(IncomingMessage)
	OnDisconnect func(playerID string)
	quit         chan struct{}
	closeOnce    sync.Once
	mu           sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	utils.Log.Info("hub started")

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.PlayerID]; ok && old != c {
				// newest connection wins
				close(old.Send)
			}
			h.clients[c.PlayerID] = c
			n := len(h.clients)
			h.mu.Unlock()
			utils.Log.Debug("hub register", "player", c.PlayerID, "connections", n)

		case c := <-h.unregister:
			h.mu.Lock()
			cur, ok := h.clients[c.PlayerID]
			if ok && cur == c {
				delete(h.clients, c.PlayerID)
				close(c.Send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			if ok && cur == c {
				utils.Log.Debug("hub unregister", "player", c.PlayerID, "connections", n)
				if h.OnDisconnect != nil {
					h.OnDisconnect(c.PlayerID)
				}
			}

		case <-h.quit:
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			utils.Log.Info("hub stopped")
			return
		}
	}
}

// Register hands a connected client to the hub loop.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

// Unregister removes the client if it is still the player's current connection.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// BroadcastToPlayers sends msg to every listed player that is connected.
func (h *Hub) BroadcastToPlayers(playerIDs []string, msg OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range playerIDs {
		if c, ok := h.clients[id]; ok {
			h.trySend(c, msg)
		}
	}
}

// SendToPlayer sends msg to a single player.
func (h *Hub) SendToPlayer(playerID string, msg OutgoingMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[playerID]; ok {
		h.trySend(c, msg)
	}
}

// caller holds mu; Send is only closed under the write lock
func (h *Hub) trySend(c *Client, msg OutgoingMessage) {
	select {
	case c.Send <- msg:
	default:
		utils.Log.Warn("dropping frame for slow client", "player", c.PlayerID, "event", msg.Event)
	}
}

func (h *Hub) ClientByPlayer(playerID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[playerID]
	return c, ok
}

// dispatch forwards a client frame to the game layer.
func (h *Hub) dispatch(msg IncomingMessage) {
	if h.OnIncoming != nil {
		h.OnIncoming(msg)
	}
}

func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
}
