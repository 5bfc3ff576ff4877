package rules

import (
	"errors"

	"CallBreak/internal/game/table"
)

// Trump is fixed for the whole game.
const Trump = table.Spades

var ErrEmptyTrick = errors.New("cannot determine winner of empty trick")

// DetermineTrickWinner returns the id of the player who takes the trick.
//
// Trump beats everything else, the highest trump wins among trumps, and
// without trump the highest card of the lead suit wins. Off-suit cards never win.
func DetermineTrickWinner(trick table.Trick) (string, error) {
	if trick.IsEmpty() {
		return "", ErrEmptyTrick
	}
	lead := trick.Cards[0].Card.Suit
	if trick.LeadSuit != nil {
		lead = *trick.LeadSuit
	}

	winning := trick.Cards[0]
	for _, cur := range trick.Cards[1:] {
		if beats(cur.Card, winning.Card, lead) {
			winning = cur
		}
	}
	return winning.PlayerID, nil
}

// beats reports whether challenger takes the trick from the current winner.
func beats(challenger, winner table.Card, lead table.Suit) bool {
	switch {
	case challenger.Suit == Trump && winner.Suit != Trump:
		return true
	case winner.Suit == Trump && challenger.Suit != Trump:
		return false
	case challenger.Suit == winner.Suit:
		// equal cards from two decks: the earlier one keeps the trick
		return challenger.Value() > winner.Value()
	case challenger.Suit == lead && winner.Suit != lead:
		return true
	}
	return false
}

// CanPlayCard checks the follow-suit rule. Leading is always legal, and a
// player out of the lead suit may play anything, trump included.
func CanPlayCard(card table.Card, hand []table.Card, trick table.Trick) bool {
	if trick.IsEmpty() || trick.LeadSuit == nil {
		return true
	}
	lead := *trick.LeadSuit
	if card.Suit != lead && hasSuit(hand, lead) {
		return false
	}
	return true
}

// LegalPlays returns the cards of hand that may be played into trick.
func LegalPlays(hand []table.Card, trick table.Trick) []table.Card {
	out := make([]table.Card, 0, len(hand))
	for _, c := range hand {
		if CanPlayCard(c, hand, trick) {
			out = append(out, c)
		}
	}
	return out
}

func hasSuit(hand []table.Card, s table.Suit) bool {
	for _, c := range hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}
