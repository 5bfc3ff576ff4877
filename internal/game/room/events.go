package room

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"CallBreak/internal/game/table"
)

// Inbound events.
const (
	EventCreateGame     = "create-game"
	EventJoinGame       = "join-game"
	EventPlayerReady    = "player-ready"
	EventPlaceBid       = "place-bid"
	EventPlayCard       = "play-card"
	EventStartNextRound = "start-next-round"
	EventLeaveGame      = "leave-game"
)

// Outbound events.
const (
	EventGameCreated     = "game-created"
	EventGameUpdated     = "game-updated"
	EventGameStarted     = "game-started"
	EventBiddingComplete = "bidding-complete"
	EventRoundEnded      = "round-ended"
	EventGameEnded       = "game-ended"
	EventPlayerLeft      = "player-left"
	EventYourTurn        = "your-turn"
)

var (
	ErrWrongPhase   = errors.New("action not allowed in this phase")
	ErrBadPayload   = errors.New("malformed payload")
	ErrUnknownEvent = errors.New("unknown event")
	ErrRoomClosed   = errors.New("room closed")
)

type JoinPayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
}

type BidPayload struct {
	Bid int `json:"bid"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}

type GameRefPayload struct {
	GameID string `json:"gameId"`
}

type RoundEndedPayload struct {
	GameID    string         `json:"gameId"`
	Round     int            `json:"round"`
	Standings []table.Player `json:"standings"`
}

type GameEndedPayload struct {
	GameID    string         `json:"gameId"`
	Standings []table.Player `json:"standings"`
}

// YourTurnPayload goes only to the player whose turn it is.
// Bidding turns carry the bid range, playing turns the cards that may be played.
type YourTurnPayload struct {
	GameID     string       `json:"gameId"`
	Phase      table.Phase  `json:"phase"`
	MinBid     int          `json:"minBid,omitempty"`
	MaxBid     int          `json:"maxBid,omitempty"`
	LegalCards []table.Card `json:"legalCards,omitempty"`
}

// decodeBid accepts a bare number or {"bid": n}.
func decodeBid(data json.RawMessage) (int, error) {
	data = bytes.TrimSpace(data)
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}
	var p BidPayload
	if err := json.Unmarshal(data, &p); err != nil || !bytes.Contains(data, []byte(`"bid"`)) {
		return 0, fmt.Errorf("%w: bid", ErrBadPayload)
	}
	return p.Bid, nil
}

func decodeCard(data json.RawMessage) (table.Card, error) {
	var c table.Card
	if err := json.Unmarshal(data, &c); err != nil || c.ID == "" {
		return table.Card{}, fmt.Errorf("%w: card", ErrBadPayload)
	}
	return c, nil
}

// DecodeJoin reads a join-game payload. An empty body is allowed.
func DecodeJoin(data json.RawMessage) (JoinPayload, error) {
	var p JoinPayload
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: join", ErrBadPayload)
	}
	return p, nil
}

// DecodeName reads a create-game payload: a bare string or {"playerName": "..."}.
func DecodeName(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var p JoinPayload
	_ = json.Unmarshal(data, &p)
	return p.PlayerName
}
