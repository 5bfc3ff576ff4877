package engine

import (
	"errors"
	"fmt"
	"sort"

	"CallBreak/internal/game/rules"
	"CallBreak/internal/game/table"
)

var (
	ErrGameStarted   = errors.New("game already started")
	ErrGameFull      = errors.New("game is full")
	ErrAlreadySeated = errors.New("player already in game")
)

// AddPlayer seats a new player at the end of the table. Only possible in the lobby.
func (e *Engine) AddPlayer(s *table.GameState, playerID, name string) (*table.GameState, error) {
	if s.Phase != table.PhaseLobby {
		return nil, ErrGameStarted
	}
	if s.PlayerIndex(playerID) != -1 {
		return nil, fmt.Errorf("%w: %s", ErrAlreadySeated, playerID)
	}
	if len(s.Players) >= rules.MaxPlayers {
		return nil, ErrGameFull
	}

	next := s.Clone()
	next.Players = append(next.Players, newPlayer(playerID, name, len(next.Players)))
	next.Config = deriveConfig(len(next.Players))
	return next, nil
}

// SetReady marks a lobby player as ready.
func (e *Engine) SetReady(s *table.GameState, playerID string) (*table.GameState, error) {
	idx := s.PlayerIndex(playerID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	next := s.Clone()
	next.Players[idx].IsReady = true
	return next, nil
}

// AllReady reports whether the lobby can start: enough players, all ready.
func AllReady(s *table.GameState) bool {
	if len(s.Players) < rules.MinPlayers {
		return false
	}
	for _, p := range s.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// RemovePlayer drops a seat. A round in progress cannot continue with a
// missing hand, so it is abandoned without scoring; below two players the
// game is over.
func (e *Engine) RemovePlayer(s *table.GameState, playerID string) (*table.GameState, error) {
	idx := s.PlayerIndex(playerID)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	next := s.Clone()
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	next.Config = deriveConfig(len(next.Players))

	if next.CurrentPlayerIndex > idx {
		next.CurrentPlayerIndex--
	}
	if next.CurrentPlayerIndex >= len(next.Players) {
		next.CurrentPlayerIndex = 0
	}

	switch next.Phase {
	case table.PhaseLobby, table.PhaseGameEnd:
		return next, nil
	case table.PhaseBidding, table.PhasePlaying:
		for i := range next.Players {
			next.Players[i].Hand = []table.Card{}
			next.Players[i].Bid = nil
			next.Players[i].TricksWon = 0
		}
		next.CurrentTrick = emptyTrick(nil)
		next.CurrentPlayerIndex = 0
		next.Phase = table.PhaseRoundEnd
	}
	if len(next.Players) < rules.MinPlayers {
		next.Phase = table.PhaseGameEnd
	}
	return next, nil
}

// EndGame closes the game. Nothing in the rules ends a game; the room decides.
func (e *Engine) EndGame(s *table.GameState) *table.GameState {
	next := s.Clone()
	next.Phase = table.PhaseGameEnd
	return next
}

// Standings returns the players ordered by score, highest first, seat order on ties.
func Standings(s *table.GameState) []table.Player {
	out := s.Clone().Players
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
