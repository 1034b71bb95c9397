package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(name string, value int) Card {
	return Card{ID: uuid.New(), Name: name, Value: value, Suit: "Hearts"}
}

func TestPlayer_AddCard(t *testing.T) {
	p := NewPlayer("alice@example.com")

	p.AddCard(card("7", 7))
	p.AddCard(card("K", 10))

	assert.Equal(t, 17, p.Points)
	assert.Len(t, p.CardsHistory, 2)
	assert.Equal(t, StateActive, p.State)
	assert.False(t, p.Busted)
}

func TestPlayer_AceDefaultsToOne(t *testing.T) {
	p := NewPlayer("alice@example.com")
	ace := card("A", 1)

	p.AddCard(ace)
	p.AddCard(card("9", 9))

	assert.Equal(t, 10, p.Points)
	asEleven, tracked := p.AceValues[ace.ID]
	require.True(t, tracked)
	assert.False(t, asEleven)
}

func TestPlayer_AceToggleRoundTrip(t *testing.T) {
	p := NewPlayer("alice@example.com")
	ace := card("A", 1)
	p.AddCard(ace)
	p.AddCard(card("9", 9))

	p.AceValues[ace.ID] = true
	p.Recalculate()
	assert.Equal(t, 20, p.Points)

	p.AceValues[ace.ID] = false
	p.Recalculate()
	assert.Equal(t, 10, p.Points)
}

func TestPlayer_BustOnRecalculate(t *testing.T) {
	p := NewPlayer("alice@example.com")
	p.AddCard(card("K", 10))
	p.AddCard(card("Q", 10))
	p.AddCard(card("5", 5))

	assert.Equal(t, 25, p.Points)
	assert.True(t, p.Busted)
	assert.Equal(t, StateBusted, p.State)
}

func TestPlayer_BustLatchIsOneWay(t *testing.T) {
	p := NewPlayer("alice@example.com")
	ace := card("A", 1)
	p.AddCard(card("K", 10))
	p.AddCard(ace)

	// Toggling the ace to 11 busts the hand.
	p.AceValues[ace.ID] = true
	p.AddCard(card("5", 5))
	require.True(t, p.Busted)
	require.Equal(t, 26, p.Points)

	// Toggling it back lowers the points but the bust stays latched.
	p.AceValues[ace.ID] = false
	p.Recalculate()
	assert.Equal(t, 16, p.Points)
	assert.True(t, p.Busted)
	assert.Equal(t, StateBusted, p.State)
}

func TestUserStats_RecordGame(t *testing.T) {
	stats := &UserStats{}

	stats.RecordGame(OutcomeWon, 20)
	stats.RecordGame(OutcomeLost, 15)
	stats.RecordGame(OutcomePush, 18)
	stats.RecordGame(OutcomeBusted, 25)

	assert.Equal(t, 4, stats.GamesPlayed)
	assert.Equal(t, 1, stats.GamesWon)
	assert.Equal(t, 2, stats.GamesLost, "bust counts as a loss")
	assert.Equal(t, 1, stats.GamesTied)
	assert.Equal(t, 1, stats.TimesBusted)
	assert.Equal(t, 25, stats.HighestScore)
	assert.InDelta(t, 25.0, stats.WinRate(), 0.001)
	assert.InDelta(t, 19.5, stats.AveragePoints(), 0.001)
}

func TestUserStats_Empty(t *testing.T) {
	stats := &UserStats{}
	assert.Zero(t, stats.WinRate())
	assert.Zero(t, stats.AveragePoints())
}
