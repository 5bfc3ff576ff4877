package matchmaker

import "time"

// JoinRequest asks for a seat at a table of the given size. The player comes
// from the authenticated session.
type JoinRequest struct {
	TableSize int `json:"tableSize" binding:"required"`
}

// JoinResponse says whether the player is still queued; once a table is
// formed it carries the match.
type JoinResponse struct {
	Queued    bool     `json:"queued"`
	RoomID    string   `json:"roomId,omitempty"`
	Players   []string `json:"players,omitempty"`
	TableSize int      `json:"tableSize"`
}

// Room is a formed table waiting to be handed to the game manager.
type Room struct {
	ID        string    `json:"id"`
	TableSize int       `json:"tableSize"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}
