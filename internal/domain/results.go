package domain

// PlayerOutcome classifies a player's result in a finished game.
type PlayerOutcome string

const (
	OutcomeWon    PlayerOutcome = "won"
	OutcomeLost   PlayerOutcome = "lost"
	OutcomePush   PlayerOutcome = "push"
	OutcomeBusted PlayerOutcome = "busted"
)

// PlayerSummary is the condensed view of one hand.
type PlayerSummary struct {
	Points     int  `json:"points"`
	CardsCount int  `json:"cards_count"`
	Busted     bool `json:"busted"`
}

// PlayerResult is a summary plus the outcome against the dealer.
type PlayerResult struct {
	Points     int           `json:"points"`
	CardsCount int           `json:"cards_count"`
	Busted     bool          `json:"busted"`
	Outcome    PlayerOutcome `json:"outcome"`
}

// GameResult is the full settlement of a finished game.
type GameResult struct {
	// Winner is the single winning email, empty when there is a tie or no
	// winner at all.
	Winner string `json:"winner,omitempty"`
	// TiedPlayers lists every email tied at the highest winning score when
	// two or more players share it.
	TiedPlayers []string `json:"tied_players"`
	// HighestScore is the best point total among players who won (0 if none).
	HighestScore int `json:"highest_score"`
	// AllPlayers maps email to summary, dealer included.
	AllPlayers map[string]PlayerSummary `json:"all_players"`
	// PlayerResults maps email to detailed result, dealer excluded.
	PlayerResults map[string]PlayerResult  `json:"player_results"`
	DealerPoints  int                      `json:"dealer_points"`
	DealerBusted  bool                     `json:"dealer_busted"`
}

// CalculateResults settles the game against the dealer. A busted dealer
// scores 0 and every non-busted player wins; a player beats the dealer on a
// strictly higher total and pushes on an equal one.
func (g *Game) CalculateResults() *GameResult {
	result := &GameResult{
		TiedPlayers:   []string{},
		AllPlayers:    make(map[string]PlayerSummary, len(g.Players)+1),
		PlayerResults: make(map[string]PlayerResult, len(g.Players)),
		DealerPoints:  g.Dealer.Points,
		DealerBusted:  g.Dealer.Busted,
	}

	result.AllPlayers[DealerEmail] = PlayerSummary{
		Points:     g.Dealer.Points,
		CardsCount: len(g.Dealer.CardsHistory),
		Busted:     g.Dealer.Busted,
	}

	dealerScore := g.Dealer.Points
	if g.Dealer.Busted {
		dealerScore = 0
	}

	for email, p := range g.Players {
		result.AllPlayers[email] = PlayerSummary{
			Points:     p.Points,
			CardsCount: len(p.CardsHistory),
			Busted:     p.Busted,
		}

		var outcome PlayerOutcome
		switch {
		case p.Busted:
			outcome = OutcomeBusted
		case dealerScore == 0 || p.Points > dealerScore:
			outcome = OutcomeWon
		case p.Points == dealerScore:
			outcome = OutcomePush
		default:
			outcome = OutcomeLost
		}
		result.PlayerResults[email] = PlayerResult{
			Points:     p.Points,
			CardsCount: len(p.CardsHistory),
			Busted:     p.Busted,
			Outcome:    outcome,
		}

		if outcome == OutcomeWon && p.Points > result.HighestScore {
			result.HighestScore = p.Points
		}
	}

	// Winner is the unique email at the highest winning score; two or more
	// at that score tie and clear the single winner.
	if result.HighestScore > 0 {
		var atTop []string
		for email, r := range result.PlayerResults {
			if r.Outcome == OutcomeWon && r.Points == result.HighestScore {
				atTop = append(atTop, email)
			}
		}
		if len(atTop) == 1 {
			result.Winner = atTop[0]
		} else {
			result.TiedPlayers = atTop
		}
	}

	return result
}
