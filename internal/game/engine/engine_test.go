package engine

import (
	"testing"

	"CallBreak/internal/game/rules"
	"CallBreak/internal/game/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(42) // deterministic seed for tests
}

// playRound plays every trick with the first legal card of whoever is on turn.
func playRound(t *testing.T, e *Engine, s *table.GameState) *table.GameState {
	t.Helper()
	for s.Phase == table.PhasePlaying {
		cur, ok := s.CurrentPlayer()
		require.True(t, ok)
		legal := rules.LegalPlays(cur.Hand, s.CurrentTrick)
		require.NotEmpty(t, legal)

		next, err := e.PlayCard(s, cur.ID, legal[0])
		require.NoError(t, err)
		s = next
	}
	return s
}

func bidAll(t *testing.T, e *Engine, s *table.GameState, bids map[string]int) *table.GameState {
	t.Helper()
	for _, id := range s.PlayerIDs() {
		next, err := e.ProcessBid(s, id, bids[id])
		require.NoError(t, err)
		s = next
	}
	return s
}

func TestCreateGame(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"p1", "p2"}, []string{"Alice", "Bob"})

	assert.Len(t, s.Players, 2)
	assert.Equal(t, "Alice", s.Players[0].Name)
	assert.Equal(t, "Bob", s.Players[1].Name)
	assert.Equal(t, table.PhaseLobby, s.Phase)
	assert.Equal(t, 0, s.CurrentRound)
	assert.Len(t, s.ID, 8)
	for _, p := range s.Players {
		assert.Empty(t, p.Hand)
		assert.Nil(t, p.Bid)
		assert.Zero(t, p.Score)
		assert.False(t, p.IsReady)
	}
}

func TestCreateGameConfigAndNames(t *testing.T) {
	e := newTestEngine()

	s := e.CreateGame([]string{"p1", "p2", "p3", "p4"}, []string{"A", "B", "C", "D"})
	assert.Equal(t, 4, s.Config.PlayerCount)
	assert.Equal(t, 13, s.Config.CardsPerPlayer)

	s = e.CreateGame([]string{"p1", "p2"}, []string{"A"})
	assert.Equal(t, "Player 2", s.Players[1].Name)

	// a single host waits in the lobby without a hand size
	s = e.CreateGame([]string{"host"}, []string{"Host"})
	assert.Equal(t, table.GameConfig{PlayerCount: 1}, s.Config)
}

func TestGameIDsDiffer(t *testing.T) {
	a, b := NewGameID(), NewGameID()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestStartNewRound(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"p1", "p2"}, []string{"Alice", "Bob"})
	before := s.Clone()

	next := e.StartNewRound(s)

	assert.Equal(t, 1, next.CurrentRound)
	assert.Equal(t, table.PhaseBidding, next.Phase)
	assert.Equal(t, 0, next.CurrentPlayerIndex)
	assert.True(t, next.CurrentTrick.IsEmpty())
	for _, p := range next.Players {
		assert.Len(t, p.Hand, 13)
		assert.Nil(t, p.Bid)
		assert.Zero(t, p.TricksWon)
	}
	assert.Equal(t, before, s, "input snapshot must not change")
}

func TestStartNewRoundResetsAfterRound(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2"}, nil))
	s = bidAll(t, e, s, map[string]int{"p1": 3, "p2": 4})
	s = playRound(t, e, s)
	require.Equal(t, table.PhaseRoundEnd, s.Phase)

	next := e.StartNewRound(s)
	assert.Equal(t, s.CurrentRound+1, next.CurrentRound)
	assert.Equal(t, table.PhaseBidding, next.Phase)
	for i, p := range next.Players {
		assert.Nil(t, p.Bid)
		assert.Zero(t, p.TricksWon)
		assert.Len(t, p.Hand, 13)
		assert.Equal(t, s.Players[i].Score, p.Score, "scores carry over")
	}
}

func TestStartNewRoundHandsSortedAndDistinct(t *testing.T) {
	e := newTestEngine()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	s := e.StartNewRound(e.CreateGame(ids, nil))

	seen := map[string]bool{}
	for _, p := range s.Players {
		assert.Len(t, p.Hand, 8)
		for i, c := range p.Hand {
			assert.False(t, seen[c.ID], "duplicate card %s", c.ID)
			seen[c.ID] = true
			if i > 0 {
				prev := p.Hand[i-1]
				if prev.Suit == c.Suit {
					assert.LessOrEqual(t, prev.Value(), c.Value())
				}
			}
		}
	}
	assert.Len(t, seen, 96)
}

func TestProcessBid(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2"}, nil))

	s1, err := e.ProcessBid(s, "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, table.PhaseBidding, s1.Phase)
	assert.Equal(t, 1, s1.CurrentPlayerIndex)
	assert.Equal(t, 3, s1.Players[0].BidValue())
	assert.Nil(t, s.Players[0].Bid, "input snapshot must not change")

	s2, err := e.ProcessBid(s1, "p2", 4)
	require.NoError(t, err)
	assert.Equal(t, table.PhasePlaying, s2.Phase)
	assert.Equal(t, 0, s2.CurrentPlayerIndex)
}

func TestProcessBidRotationWraps(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2", "p3"}, nil))

	s, err := e.ProcessBid(s, "p3", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentPlayerIndex)

	// re-bidding replaces the previous bid
	s, err = e.ProcessBid(s, "p3", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Players[2].BidValue())
	assert.Equal(t, table.PhaseBidding, s.Phase)
}

func TestProcessBidErrors(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2"}, nil))

	_, err := e.ProcessBid(s, "p1", 0)
	assert.ErrorIs(t, err, ErrInvalidBid)

	_, err = e.ProcessBid(s, "p1", 14)
	assert.ErrorIs(t, err, ErrInvalidBid)

	_, err = e.ProcessBid(s, "ghost", 3)
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = e.ProcessBid(s, "p1", 13)
	assert.NoError(t, err)
}

func TestPlayCardErrors(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2"}, nil))
	s = bidAll(t, e, s, map[string]int{"p1": 1, "p2": 1})

	_, err := e.PlayCard(s, "ghost", s.Players[0].Hand[0])
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	_, err = e.PlayCard(s, "p2", s.Players[1].Hand[0])
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.PlayCard(s, "p1", s.Players[1].Hand[0])
	assert.ErrorIs(t, err, ErrIllegalCard, "card from someone else's hand")
}

func TestPlayCardFollowSuit(t *testing.T) {
	e := newTestEngine()
	s := followSuitState()
	before := s.Clone()

	_, err := e.PlayCard(s, "p2", table.NewCard(table.Clubs, table.Ace))
	assert.ErrorIs(t, err, ErrIllegalCard)
	assert.Equal(t, before, s)

	next, err := e.PlayCard(s, "p2", table.NewCard(table.Hearts, table.Two))
	require.NoError(t, err)
	assert.Equal(t, before, s, "input snapshot must not change")

	// trick resolved: hearts king beats hearts two
	assert.True(t, next.CurrentTrick.IsEmpty())
	require.NotNil(t, next.CurrentTrick.WinnerID)
	assert.Equal(t, "p1", *next.CurrentTrick.WinnerID)
	assert.Equal(t, 0, next.CurrentPlayerIndex)
	assert.Equal(t, 1, next.Players[0].TricksWon)
	assert.Equal(t, table.PhasePlaying, next.Phase)
	assert.Len(t, next.Players[1].Hand, 1)
}

// p1 has led the king of hearts; p2 holds a heart and a club
func followSuitState() *table.GameState {
	lead := table.Hearts
	one := 1
	return &table.GameState{
		ID: "TEST",
		Players: []table.Player{
			{ID: "p1", Name: "A", Hand: []table.Card{table.NewCard(table.Spades, table.Two)}, Bid: &one},
			{ID: "p2", Name: "B", Hand: []table.Card{table.NewCard(table.Clubs, table.Ace), table.NewCard(table.Hearts, table.Two)}, Bid: &one},
		},
		CurrentRound: 1,
		CurrentTrick: table.Trick{
			LeadSuit: &lead,
			Cards:    []table.PlayedCard{{PlayerID: "p1", Card: table.NewCard(table.Hearts, table.King)}},
		},
		CurrentPlayerIndex: 1,
		Phase:              table.PhasePlaying,
		Config:             table.GameConfig{PlayerCount: 2, CardsPerPlayer: 2, DeckCount: 1},
	}
}

func TestPlayCardAdvancesTurnAndSetsLead(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2", "p3"}, nil))
	s = bidAll(t, e, s, map[string]int{"p1": 1, "p2": 1, "p3": 1})

	c := s.Players[0].Hand[3]
	next, err := e.PlayCard(s, "p1", c)
	require.NoError(t, err)

	assert.Equal(t, 1, next.CurrentPlayerIndex)
	require.NotNil(t, next.CurrentTrick.LeadSuit)
	assert.Equal(t, c.Suit, *next.CurrentTrick.LeadSuit)
	assert.Equal(t, []table.PlayedCard{{PlayerID: "p1", Card: c}}, next.CurrentTrick.Cards)
	assert.Len(t, next.Players[0].Hand, 12)
	assert.NotContains(t, next.Players[0].Hand, c)
	assert.Len(t, s.Players[0].Hand, 13)
}

func TestFullRoundTwoPlayers(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"p1", "p2"}, []string{"Alice", "Bob"}))

	s, err := e.ProcessBid(s, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, table.PhaseBidding, s.Phase)
	s, err = e.ProcessBid(s, "p2", 5)
	require.NoError(t, err)
	assert.Equal(t, table.PhasePlaying, s.Phase)
	assert.Equal(t, 0, s.CurrentPlayerIndex)

	s = playRound(t, e, s)

	assert.Equal(t, table.PhaseRoundEnd, s.Phase)
	total := 0
	for _, p := range s.Players {
		assert.Empty(t, p.Hand)
		total += p.TricksWon
		want := rules.CalculateRoundScore(p.BidValue(), p.TricksWon)
		assert.InDelta(t, want, p.Score, 1e-9, "score for %s", p.ID)
	}
	assert.Equal(t, 13, total)
	require.NotNil(t, s.CurrentTrick.WinnerID)
	assert.Equal(t, *s.CurrentTrick.WinnerID, s.Players[s.CurrentPlayerIndex].ID)
}

func TestScoresAccumulateAcrossRounds(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"p1", "p2", "p3", "p4"}, nil)

	expected := map[string]float64{}
	for round := 1; round <= 3; round++ {
		s = e.StartNewRound(s)
		require.Equal(t, round, s.CurrentRound)
		s = bidAll(t, e, s, map[string]int{"p1": 2, "p2": 3, "p3": 4, "p4": 1})
		s = playRound(t, e, s)
		require.Equal(t, table.PhaseRoundEnd, s.Phase)
		for _, p := range s.Players {
			expected[p.ID] += rules.CalculateRoundScore(p.BidValue(), p.TricksWon)
		}
	}
	for _, p := range s.Players {
		assert.InDelta(t, expected[p.ID], p.Score, 1e-9)
	}
}

func TestFullRoundTwoDecks(t *testing.T) {
	e := newTestEngine()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	s := e.StartNewRound(e.CreateGame(ids, nil))
	bids := map[string]int{}
	for _, id := range ids {
		bids[id] = 1
	}
	s = bidAll(t, e, s, bids)
	s = playRound(t, e, s)

	assert.Equal(t, table.PhaseRoundEnd, s.Phase)
	total := 0
	for _, p := range s.Players {
		total += p.TricksWon
	}
	assert.Equal(t, 11, total)
}
