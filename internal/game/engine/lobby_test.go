package engine

import (
	"fmt"
	"testing"

	"CallBreak/internal/game/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayer(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"host"}, []string{"Host"})

	next, err := e.AddPlayer(s, "guest", "Guest")
	require.NoError(t, err)
	assert.Len(t, next.Players, 2)
	assert.Equal(t, "Guest", next.Players[1].Name)
	assert.Equal(t, table.GameConfig{PlayerCount: 2, CardsPerPlayer: 13, DeckCount: 1}, next.Config)
	assert.Len(t, s.Players, 1, "input snapshot must not change")

	next, err = e.AddPlayer(next, "third", "")
	require.NoError(t, err)
	assert.Equal(t, "Player 3", next.Players[2].Name)

	_, err = e.AddPlayer(next, "guest", "Again")
	assert.ErrorIs(t, err, ErrAlreadySeated)
}

func TestAddPlayerFullAndStarted(t *testing.T) {
	e := newTestEngine()
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i)
	}
	s := e.CreateGame(ids, nil)

	_, err := e.AddPlayer(s, "extra", "Extra")
	assert.ErrorIs(t, err, ErrGameFull)

	started := e.StartNewRound(e.CreateGame([]string{"a", "b"}, nil))
	_, err = e.AddPlayer(started, "late", "Late")
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestReadyFlow(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"host"}, nil)

	s, err := e.SetReady(s, "host")
	require.NoError(t, err)
	assert.False(t, AllReady(s), "one player is not enough")

	s, err = e.AddPlayer(s, "guest", "Guest")
	require.NoError(t, err)
	assert.False(t, AllReady(s))

	s, err = e.SetReady(s, "guest")
	require.NoError(t, err)
	assert.True(t, AllReady(s))

	_, err = e.SetReady(s, "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRemovePlayerInLobby(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"a", "b", "c"}, nil)

	next, err := e.RemovePlayer(s, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, next.PlayerIDs())
	assert.Equal(t, 2, next.Config.PlayerCount)
	assert.Equal(t, table.PhaseLobby, next.Phase)

	next, err = e.RemovePlayer(next, "a")
	require.NoError(t, err)
	assert.Equal(t, table.PhaseLobby, next.Phase)
	assert.Equal(t, table.GameConfig{PlayerCount: 1}, next.Config)

	_, err = e.RemovePlayer(next, "zzz")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRemovePlayerAbandonsRound(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"a", "b", "c"}, nil))
	s, err := e.ProcessBid(s, "a", 2)
	require.NoError(t, err)

	next, err := e.RemovePlayer(s, "c")
	require.NoError(t, err)
	assert.Equal(t, table.PhaseRoundEnd, next.Phase)
	assert.Equal(t, 0, next.CurrentPlayerIndex)
	for _, p := range next.Players {
		assert.Empty(t, p.Hand)
		assert.Nil(t, p.Bid)
		assert.Zero(t, p.Score)
	}
	assert.Equal(t, 13, next.Config.CardsPerPlayer)

	// the next round deals for the smaller table
	round := e.StartNewRound(next)
	assert.Len(t, round.Players[0].Hand, 13)
	assert.Len(t, round.Players[1].Hand, 13)
}

func TestRemovePlayerEndsGame(t *testing.T) {
	e := newTestEngine()
	s := e.StartNewRound(e.CreateGame([]string{"a", "b"}, nil))

	next, err := e.RemovePlayer(s, "a")
	require.NoError(t, err)
	assert.Equal(t, table.PhaseGameEnd, next.Phase)
	assert.Equal(t, []string{"b"}, next.PlayerIDs())
}

func TestRemovePlayerKeepsTurnPointer(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"a", "b", "c", "d"}, nil)
	s.CurrentPlayerIndex = 3

	next, err := e.RemovePlayer(s, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, next.CurrentPlayerIndex)
	assert.Equal(t, "d", next.Players[next.CurrentPlayerIndex].ID)

	next, err = e.RemovePlayer(next, "d")
	require.NoError(t, err)
	assert.Equal(t, 0, next.CurrentPlayerIndex)
}

func TestEndGameAndStandings(t *testing.T) {
	e := newTestEngine()
	s := e.CreateGame([]string{"a", "b", "c"}, nil)
	s.Players[0].Score = 1.5
	s.Players[1].Score = 4
	s.Players[2].Score = 1.5

	end := e.EndGame(s)
	assert.Equal(t, table.PhaseGameEnd, end.Phase)
	assert.Equal(t, table.PhaseLobby, s.Phase)

	st := Standings(end)
	assert.Equal(t, "b", st[0].ID)
	assert.Equal(t, "a", st[1].ID)
	assert.Equal(t, "c", st[2].ID)
	assert.Equal(t, []string{"a", "b", "c"}, end.PlayerIDs())
}
