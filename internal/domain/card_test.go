package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	// Every card instance has a unique ID and every (name, suit) pair
	// appears exactly once.
	ids := make(map[uuid.UUID]bool)
	pairs := make(map[string]int)
	for _, c := range deck {
		assert.False(t, ids[c.ID], "duplicate card ID")
		ids[c.ID] = true
		pairs[c.Name+"/"+c.Suit]++
	}
	assert.Len(t, pairs, 52)
	for pair, count := range pairs {
		assert.Equal(t, 1, count, "pair %s", pair)
	}
}

func TestCardValues(t *testing.T) {
	deck := NewDeck()
	for _, c := range deck {
		switch c.Name {
		case "A":
			assert.Equal(t, 1, c.Value)
			assert.True(t, c.IsAce())
		case "J", "Q", "K", "10":
			assert.Equal(t, 10, c.Value)
			assert.False(t, c.IsAce())
		default:
			assert.GreaterOrEqual(t, c.Value, 2)
			assert.LessOrEqual(t, c.Value, 9)
		}
	}
}
