package domain

import "github.com/google/uuid"

// PlayerState is the per-game lifecycle state of a player.
type PlayerState string

const (
	StateActive   PlayerState = "active"
	StateStanding PlayerState = "standing"
	StateBusted   PlayerState = "busted"
)

// Player is the gameplay-facing record of one seat at the table, keyed by
// email. The synthetic dealer uses the same type with email "dealer".
type Player struct {
	Email        string             `json:"email"`
	Points       int                `json:"points"`
	CardsHistory []Card             `json:"cards_history"`
	AceValues    map[uuid.UUID]bool `json:"ace_values"`
	Busted       bool               `json:"busted"`
	State        PlayerState        `json:"state"`
}

// NewPlayer returns an active player with an empty hand.
func NewPlayer(email string) *Player {
	return &Player{
		Email:        email,
		CardsHistory: []Card{},
		AceValues:    make(map[uuid.UUID]bool),
		State:        StateActive,
	}
}

// AddCard appends a card to the hand and recomputes points. Aces default to
// counting as 1 (false in AceValues) until the player toggles them.
func (p *Player) AddCard(c Card) {
	if c.IsAce() {
		p.AceValues[c.ID] = false
	}
	p.CardsHistory = append(p.CardsHistory, c)
	p.Recalculate()
}

// Recalculate recomputes points from the hand: the sum of base values plus
// 10 for every Ace flagged as eleven. The bust latch is one-way: once a
// player busts, a later Ace toggle can lower the points but never clears
// Busted or rescues the player.
func (p *Player) Recalculate() {
	total := 0
	for _, c := range p.CardsHistory {
		total += c.Value
		if c.IsAce() && p.AceValues[c.ID] {
			total += 10
		}
	}
	p.Points = total
	if p.Points > 21 {
		p.Busted = true
		p.State = StateBusted
	}
}
