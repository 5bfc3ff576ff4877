package table

// Phase of a game room.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhaseBidding  Phase = "BIDDING"
	PhasePlaying  Phase = "PLAYING"
	PhaseRoundEnd Phase = "ROUND_END"
	PhaseGameEnd  Phase = "GAME_END"
)

// GameConfig is derived from the player count, see rules.ResolveConfig.
type GameConfig struct {
	PlayerCount    int `json:"playerCount"`
	CardsPerPlayer int `json:"cardsPerPlayer"`
	DeckCount      int `json:"deckCount"`
}

type Player struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Hand      []Card  `json:"hand"`
	Bid       *int    `json:"bid"` // nil until the player bids this round
	TricksWon int     `json:"tricksWon"`
	Score     float64 `json:"score"`
	IsReady   bool    `json:"isReady"` // lobby only
}

// HasBid reports whether the player has bid in the current round.
func (p Player) HasBid() bool {
	return p.Bid != nil
}

// BidValue returns the bid, or 0 when unset.
func (p Player) BidValue() int {
	if p.Bid == nil {
		return 0
	}
	return *p.Bid
}

type PlayedCard struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Trick is the set of cards played since the last trick was resolved.
// WinnerID is kept after a trick resolves so clients can show who took it.
type Trick struct {
	LeadSuit *Suit        `json:"leadSuit"`
	Cards    []PlayedCard `json:"cards"`
	WinnerID *string      `json:"winnerId"`
}

// GameState is the aggregate for one room. Engine operations never modify a
// GameState in place; they return a fresh copy.
type GameState struct {
	ID                 string     `json:"id"`
	Players            []Player   `json:"players"` // seat order
	CurrentRound       int        `json:"currentRound"`
	CurrentTrick       Trick      `json:"currentTrick"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	Phase              Phase      `json:"phase"`
	Config             GameConfig `json:"config"`
}

// PlayerIndex returns the seat of the player, or -1.
func (s *GameState) PlayerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// PlayerIDs returns the ids in seat order.
func (s *GameState) PlayerIDs() []string {
	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	return ids
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() (Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// Clone returns a deep copy sharing no slices or pointers with s.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.CurrentTrick = s.CurrentTrick.Clone()
	return &out
}

func (p Player) clone() Player {
	out := p
	out.Hand = append([]Card{}, p.Hand...)
	if p.Bid != nil {
		b := *p.Bid
		out.Bid = &b
	}
	return out
}

// Clone returns a deep copy of the trick.
func (t Trick) Clone() Trick {
	out := Trick{Cards: append([]PlayedCard{}, t.Cards...)}
	if t.LeadSuit != nil {
		s := *t.LeadSuit
		out.LeadSuit = &s
	}
	if t.WinnerID != nil {
		w := *t.WinnerID
		out.WinnerID = &w
	}
	return out
}

// IsEmpty reports whether no card has been played into the trick.
func (t Trick) IsEmpty() bool {
	return len(t.Cards) == 0
}
