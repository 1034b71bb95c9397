package domain

import "github.com/google/uuid"

// Suits in deck order.
var suits = [...]string{"Hearts", "Diamonds", "Clubs", "Spades"}

// Card names with their base values. The Ace has a base value of 1 and can
// be toggled to count as 11 during play; face cards are worth 10.
var cardTypes = [...]struct {
	Name  string
	Value int
}{
	{"A", 1},
	{"2", 2},
	{"3", 3},
	{"4", 4},
	{"5", 5},
	{"6", 6},
	{"7", 7},
	{"8", 8},
	{"9", 9},
	{"10", 10},
	{"J", 10},
	{"Q", 10},
	{"K", 10},
}

// Card is a single physical card instance. ID uniquely tags the instance so
// individual Aces can be toggled later.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value int       `json:"value"`
	Suit  string    `json:"suit"`
}

// IsAce reports whether the card is an Ace.
func (c Card) IsAce() bool { return c.Name == "A" }

// NewDeck builds the initial 52-card deck, one card per (name, suit) pair.
func NewDeck() []Card {
	deck := make([]Card, 0, len(suits)*len(cardTypes))
	for _, suit := range suits {
		for _, ct := range cardTypes {
			deck = append(deck, Card{
				ID:    uuid.New(),
				Name:  ct.Name,
				Value: ct.Value,
				Suit:  suit,
			})
		}
	}
	return deck
}
