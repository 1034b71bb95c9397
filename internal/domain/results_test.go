package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultsGame builds a finished game with hand-assembled player and dealer
// points, bypassing the random deck.
func resultsGame(t *testing.T, dealerPoints int, dealerBusted bool, players map[string]*Player) *Game {
	t.Helper()
	g, err := NewGame(uuid.New(), "creator@example.com", 300, 0)
	require.NoError(t, err)
	g.Players = players
	g.Dealer.Points = dealerPoints
	g.Dealer.Busted = dealerBusted
	g.Finished = true
	return g
}

func scoredPlayer(email string, points int, busted bool) *Player {
	p := NewPlayer(email)
	p.Points = points
	p.Busted = busted
	if busted {
		p.State = StateBusted
	} else {
		p.State = StateStanding
	}
	return p
}

func TestCalculateResults_Outcomes(t *testing.T) {
	g := resultsGame(t, 18, false, map[string]*Player{
		"winner@example.com": scoredPlayer("winner@example.com", 20, false),
		"loser@example.com":  scoredPlayer("loser@example.com", 15, false),
		"push@example.com":   scoredPlayer("push@example.com", 18, false),
		"busted@example.com": scoredPlayer("busted@example.com", 24, true),
	})

	result := g.CalculateResults()

	assert.Equal(t, OutcomeWon, result.PlayerResults["winner@example.com"].Outcome)
	assert.Equal(t, OutcomeLost, result.PlayerResults["loser@example.com"].Outcome)
	assert.Equal(t, OutcomePush, result.PlayerResults["push@example.com"].Outcome)
	assert.Equal(t, OutcomeBusted, result.PlayerResults["busted@example.com"].Outcome)

	assert.Equal(t, "winner@example.com", result.Winner)
	assert.Equal(t, 20, result.HighestScore)
	assert.Empty(t, result.TiedPlayers)
	assert.Equal(t, 18, result.DealerPoints)
	assert.False(t, result.DealerBusted)
}

func TestCalculateResults_DealerBust(t *testing.T) {
	g := resultsGame(t, 25, true, map[string]*Player{
		"low@example.com":    scoredPlayer("low@example.com", 5, false),
		"busted@example.com": scoredPlayer("busted@example.com", 23, true),
	})

	result := g.CalculateResults()

	// A busted dealer scores 0: every non-busted player wins, even at 5.
	assert.Equal(t, OutcomeWon, result.PlayerResults["low@example.com"].Outcome)
	assert.Equal(t, OutcomeBusted, result.PlayerResults["busted@example.com"].Outcome)
	assert.Equal(t, "low@example.com", result.Winner)
	assert.True(t, result.DealerBusted)
}

func TestCalculateResults_Tie(t *testing.T) {
	g := resultsGame(t, 17, false, map[string]*Player{
		"a@example.com": scoredPlayer("a@example.com", 20, false),
		"b@example.com": scoredPlayer("b@example.com", 20, false),
		"c@example.com": scoredPlayer("c@example.com", 18, false),
	})

	result := g.CalculateResults()

	assert.Empty(t, result.Winner, "tie clears the single winner")
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, result.TiedPlayers)
	assert.Equal(t, 20, result.HighestScore)
}

func TestCalculateResults_NoWinner(t *testing.T) {
	g := resultsGame(t, 20, false, map[string]*Player{
		"a@example.com": scoredPlayer("a@example.com", 15, false),
		"b@example.com": scoredPlayer("b@example.com", 24, true),
	})

	result := g.CalculateResults()

	assert.Empty(t, result.Winner)
	assert.Empty(t, result.TiedPlayers)
	assert.Zero(t, result.HighestScore)
}

func TestCalculateResults_DealerInAllPlayersOnly(t *testing.T) {
	g := resultsGame(t, 19, false, map[string]*Player{
		"a@example.com": scoredPlayer("a@example.com", 20, false),
	})

	result := g.CalculateResults()

	assert.Contains(t, result.AllPlayers, DealerEmail)
	assert.NotContains(t, result.PlayerResults, DealerEmail)
	assert.Len(t, result.AllPlayers, 2)
	assert.Len(t, result.PlayerResults, 1)
}
