package rules

import (
	"errors"
	"fmt"

	"CallBreak/internal/game/table"
)

const (
	MinPlayers = 2
	MaxPlayers = 12
)

var ErrInvalidPlayerCount = errors.New("player count must be between 2 and 12")

// hand size and deck count per player count; not a formula, clients depend on these exact values
var configTable = map[int]struct{ cards, decks int }{
	2:  {13, 1},
	3:  {13, 1},
	4:  {13, 1},
	5:  {10, 1},
	6:  {8, 1},
	7:  {7, 1},
	8:  {6, 1},
	9:  {11, 2},
	10: {10, 2},
	11: {9, 2},
	12: {8, 2},
}

// ResolveConfig returns the fixed configuration for a player count.
func ResolveConfig(playerCount int) (table.GameConfig, error) {
	row, ok := configTable[playerCount]
	if !ok {
		return table.GameConfig{}, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, playerCount)
	}
	return table.GameConfig{
		PlayerCount:    playerCount,
		CardsPerPlayer: row.cards,
		DeckCount:      row.decks,
	}, nil
}

func MinimumBid(cardsPerPlayer int) int {
	return 1
}

func MaximumBid(cardsPerPlayer int) int {
	return cardsPerPlayer
}
