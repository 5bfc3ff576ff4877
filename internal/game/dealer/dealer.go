package dealer

import (
	"fmt"
	"math/rand"
	"slices"

	"CallBreak/internal/game/table"
)

const DeckSize = 52

// Dealer shuffles and deals; it knows nothing about the rules.
// A Dealer is not safe for concurrent use. Each room owns its own.
type Dealer struct {
	rnd *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// BuildDeck returns one standard deck, ids SUIT-RANK.
func BuildDeck() []table.Card {
	deck := make([]table.Card, 0, DeckSize)
	for _, s := range table.Suits {
		for _, r := range table.Ranks {
			deck = append(deck, table.NewCard(s, r))
		}
	}
	return deck
}

// BuildPool concatenates deckCount decks. Ids get a deck index suffix so that
// the same suit and rank from two decks stay distinguishable.
func BuildPool(deckCount int) []table.Card {
	pool := make([]table.Card, 0, deckCount*DeckSize)
	for i := 0; i < deckCount; i++ {
		for _, c := range BuildDeck() {
			c.ID = fmt.Sprintf("%s-%d", c.ID, i)
			pool = append(pool, c)
		}
	}
	return pool
}

// Shuffle returns a uniformly shuffled copy (Fisher-Yates). cards is untouched.
func (d *Dealer) Shuffle(cards []table.Card) []table.Card {
	out := make([]table.Card, len(cards))
	copy(out, cards)
	for i := len(out) - 1; i > 0; i-- {
		j := d.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// nil dealer or source falls back to the global generator
func (d *Dealer) intn(n int) int {
	if d == nil || d.rnd == nil {
		return rand.Intn(n)
	}
	return d.rnd.Intn(n)
}

// Deal shuffles a fresh pool and hands out cards one at a time, seat 0 first,
// until every seat holds cardsPerPlayer cards. Leftover cards sit out the round.
func (d *Dealer) Deal(playerCount, cardsPerPlayer, deckCount int) [][]table.Card {
	if playerCount <= 0 {
		return [][]table.Card{}
	}
	deck := d.Shuffle(BuildPool(deckCount))

	hands := make([][]table.Card, playerCount)
	for i := range hands {
		hands[i] = make([]table.Card, 0, cardsPerPlayer)
	}

	total := playerCount * cardsPerPlayer
	for i := 0; i < total && i < len(deck); i++ {
		seat := i % playerCount
		hands[seat] = append(hands[seat], deck[i])
	}
	return hands
}

// SortHand returns a copy ordered by suit (spades, hearts, diamonds, clubs)
// and then rank ascending. The sort is stable.
func SortHand(hand []table.Card) []table.Card {
	out := slices.Clone(hand)
	if out == nil {
		out = []table.Card{}
	}
	slices.SortStableFunc(out, func(a, b table.Card) int {
		if sa, sb := suitOrder(a.Suit), suitOrder(b.Suit); sa != sb {
			return sa - sb
		}
		return a.Value() - b.Value()
	})
	return out
}

func suitOrder(s table.Suit) int {
	for i, v := range table.Suits {
		if v == s {
			return i
		}
	}
	return len(table.Suits)
}
