package table

import "fmt"

type Suit string

const (
	Spades   Suit = "SPADES"
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
)

// Suits in display order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks from lowest to highest.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// RankValues is the only source of rank ordering.
var RankValues = map[Rank]int{
	Two:   2,
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Eight: 8,
	Nine:  9,
	Ten:   10,
	Jack:  11,
	Queen: 12,
	King:  13,
	Ace:   14,
}

// Card. ID is unique within the pool dealt for one game.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

// NewCard builds a card whose id is SUIT-RANK.
func NewCard(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r, ID: fmt.Sprintf("%s-%s", s, r)}
}

// Value returns the rank value from RankValues.
func (c Card) Value() int {
	return RankValues[c.Rank]
}

func (c Card) String() string {
	return fmtCard(c)
}

func fmtCard(c Card) string {
	suits := map[Suit]string{
		Spades:   "♠",
		Hearts:   "♥",
		Diamonds: "♦",
		Clubs:    "♣",
	}
	suitStr, ok := suits[c.Suit]
	if !ok {
		suitStr = "?"
	}
	return string(c.Rank) + suitStr
}

// IsValid reports whether suit and rank are known.
func (c Card) IsValid() bool {
	if _, ok := RankValues[c.Rank]; !ok {
		return false
	}
	for _, s := range Suits {
		if s == c.Suit {
			return true
		}
	}
	return false
}
