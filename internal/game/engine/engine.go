package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"CallBreak/internal/game/dealer"
	"CallBreak/internal/game/rules"
	"CallBreak/internal/game/table"

	"github.com/google/uuid"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidBid     = errors.New("invalid bid")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrIllegalCard    = errors.New("cannot play this card")
)

// ---------------------
//       ENGINE
// ---------------------

// Engine applies player actions to game snapshots. Every method takes the
// current snapshot and returns a new one; the input is never modified, and on
// error the caller keeps its last good snapshot.
//
// The only state an Engine holds is its Dealer, so one Engine per room.
type Engine struct {
	Dealer *dealer.Dealer
}

func NewEngine(seed int64) *Engine {
	return &Engine{Dealer: dealer.NewDealer(seed)}
}

// New returns an engine seeded from the clock.
func New() *Engine {
	return NewEngine(time.Now().UnixNano())
}

// CreateGame seats the given players in a fresh LOBBY game.
func (e *Engine) CreateGame(playerIDs, playerNames []string) *table.GameState {
	players := make([]table.Player, len(playerIDs))
	for i, id := range playerIDs {
		name := ""
		if i < len(playerNames) {
			name = playerNames[i]
		}
		players[i] = newPlayer(id, name, i)
	}

	return &table.GameState{
		ID:           NewGameID(),
		Players:      players,
		CurrentRound: 0,
		CurrentTrick: emptyTrick(nil),
		Phase:        table.PhaseLobby,
		Config:       deriveConfig(len(players)),
	}
}

// NewGameID returns a short shareable code. Uniqueness across rooms is up to the caller.
func NewGameID() string {
	return strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
}

func newPlayer(id, name string, seat int) table.Player {
	if name == "" {
		name = fmt.Sprintf("Player %d", seat+1)
	}
	return table.Player{
		ID:   id,
		Name: name,
		Hand: []table.Card{},
	}
}

// a lobby with too few or too many players has no hand size yet
func deriveConfig(n int) table.GameConfig {
	cfg, err := rules.ResolveConfig(n)
	if err != nil {
		return table.GameConfig{PlayerCount: n}
	}
	return cfg
}

func emptyTrick(winner *string) table.Trick {
	return table.Trick{Cards: []table.PlayedCard{}, WinnerID: winner}
}

// StartNewRound deals fresh hands and opens bidding. It does not check the
// current phase; callers decide when a round may start.
func (e *Engine) StartNewRound(s *table.GameState) *table.GameState {
	next := s.Clone()
	hands := e.Dealer.Deal(next.Config.PlayerCount, next.Config.CardsPerPlayer, next.Config.DeckCount)

	for i := range next.Players {
		var hand []table.Card
		if i < len(hands) {
			hand = hands[i]
		}
		next.Players[i].Hand = dealer.SortHand(hand)
		next.Players[i].Bid = nil
		next.Players[i].TricksWon = 0
	}
	next.CurrentRound++
	next.CurrentTrick = emptyTrick(nil)
	next.CurrentPlayerIndex = 0
	next.Phase = table.PhaseBidding
	return next
}

// ProcessBid records a bid. Once everyone has bid, play opens with seat 0.
func (e *Engine) ProcessBid(s *table.GameState, playerID string, bid int) (*table.GameState, error) {
	idx := s.PlayerIndex(playerID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	lo, hi := rules.MinimumBid(s.Config.CardsPerPlayer), rules.MaximumBid(s.Config.CardsPerPlayer)
	if bid < lo || bid > hi {
		return nil, fmt.Errorf("%w: bid must be between %d and %d", ErrInvalidBid, lo, hi)
	}

	next := s.Clone()
	b := bid
	next.Players[idx].Bid = &b

	if allBid(next.Players) {
		next.Phase = table.PhasePlaying
		next.CurrentPlayerIndex = 0
	} else {
		next.Phase = table.PhaseBidding
		next.CurrentPlayerIndex = (idx + 1) % len(next.Players)
	}
	return next, nil
}

func allBid(players []table.Player) bool {
	for _, p := range players {
		if !p.HasBid() {
			return false
		}
	}
	return true
}

// PlayCard plays a card from the player's hand into the current trick,
// resolving the trick and, after the last trick, scoring the round.
func (e *Engine) PlayCard(s *table.GameState, playerID string, card table.Card) (*table.GameState, error) {
	idx := s.PlayerIndex(playerID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if idx != s.CurrentPlayerIndex {
		return nil, ErrNotYourTurn
	}

	hand := s.Players[idx].Hand
	pos := indexOfCard(hand, card.ID)
	if pos == -1 {
		return nil, fmt.Errorf("%w: %s not in hand", ErrIllegalCard, card.ID)
	}
	// trust the hand, not the client's copy of the card
	held := hand[pos]
	if !rules.CanPlayCard(held, hand, s.CurrentTrick) {
		return nil, fmt.Errorf("%w: must follow %s", ErrIllegalCard, *s.CurrentTrick.LeadSuit)
	}

	next := s.Clone()
	p := &next.Players[idx]
	p.Hand = append(p.Hand[:pos], p.Hand[pos+1:]...)

	trick := &next.CurrentTrick
	if trick.IsEmpty() {
		lead := held.Suit
		trick.LeadSuit = &lead
		trick.WinnerID = nil
	}
	trick.Cards = append(trick.Cards, table.PlayedCard{PlayerID: playerID, Card: held})

	if len(trick.Cards) < len(next.Players) {
		next.CurrentPlayerIndex = (idx + 1) % len(next.Players)
		return next, nil
	}

	winnerID, err := rules.DetermineTrickWinner(*trick)
	if err != nil {
		return nil, err
	}
	winner := next.PlayerIndex(winnerID)
	next.Players[winner].TricksWon++
	next.CurrentTrick = emptyTrick(&winnerID)
	next.CurrentPlayerIndex = winner

	if handsEmpty(next.Players) {
		for i := range next.Players {
			pl := &next.Players[i]
			pl.Score += rules.CalculateRoundScore(pl.BidValue(), pl.TricksWon)
		}
		next.Phase = table.PhaseRoundEnd
	}
	return next, nil
}

func indexOfCard(cards []table.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// hands shrink in lockstep
func handsEmpty(players []table.Player) bool {
	for _, p := range players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}
