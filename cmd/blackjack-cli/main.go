package main

import (
	"flag"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func main() {
	serverFlag := flag.String("server", "http://localhost:3000", "base URL of the blackjack API")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)
	pterm.Print("\n")

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Black", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("jack", pterm.FgRed.ToStyle()),
	).Srender()
	if err != nil {
		logger.Error(err.Error())
	}
	pterm.Print(title)

	client := newAPIClient(*serverFlag)
	if !authenticate(client, logger) {
		return
	}

	var currentGame uuid.UUID
	for {
		options := []string{
			"List open games",
			"Create game",
			"Enroll in game",
			"Close enrollment",
			"Draw card",
			"Stand",
			"Toggle ace value",
			"Show game state",
			"Show results",
			"Finish game",
			"Invite player",
			"My invitations",
			"Quit",
		}
		choice, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("What do you want to do?").
			WithOptions(options).
			WithMaxHeight(len(options)).
			Show()

		switch choice {
		case "List open games":
			listOpenGames(client, logger)
		case "Create game":
			currentGame = createGame(client, logger)
		case "Enroll in game":
			currentGame = enrollGame(client, logger)
		case "Close enrollment":
			closeEnrollment(client, logger, currentGame)
		case "Draw card":
			drawCard(client, logger, currentGame)
		case "Stand":
			stand(client, logger, currentGame)
		case "Toggle ace value":
			toggleAce(client, logger, currentGame)
		case "Show game state":
			showState(client, logger, currentGame)
		case "Show results":
			showResults(client, logger, currentGame)
		case "Finish game":
			finishGame(client, logger, currentGame)
		case "Invite player":
			invitePlayer(client, logger, currentGame)
		case "My invitations":
			currentGame = myInvitations(client, logger, currentGame)
		case "Quit":
			pterm.Println("Thank you for playing...")
			return
		}
	}
}

// authenticate loops until the user has a valid session or gives up.
func authenticate(client *apiClient, logger *slog.Logger) bool {
	for {
		mode, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Welcome! How do you want to start?").
			WithOptions([]string{"Login", "Register", "Quit"}).
			Show()
		if mode == "Quit" {
			return false
		}

		email, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Email").Show()
		password, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Password").WithMask("*").Show()

		if mode == "Register" {
			if err := client.register(email, password); err != nil {
				logger.Error(err.Error())
				continue
			}
			pterm.Success.Println("Account created, logging in...")
		}
		if err := client.login(email, password); err != nil {
			logger.Error(err.Error())
			continue
		}
		pterm.Success.Printfln("Logged in as %s", pterm.LightCyan(email))
		return true
	}
}

func listOpenGames(client *apiClient, logger *slog.Logger) {
	games, err := client.openGames()
	if err != nil {
		logger.Error(err.Error())
		return
	}
	if len(games) == 0 {
		pterm.Info.Println("No open games right now, create one!")
		return
	}
	rows := pterm.TableData{{"Game", "Creator", "Seats", "Closes in"}}
	for _, g := range games {
		rows = append(rows, []string{
			g.ID.String(),
			g.CreatorEmail,
			pterm.Sprintf("%d/%d", g.EnrolledCount, g.MaxPlayers),
			pterm.Sprintf("%ds", g.TimeRemainingSeconds),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func createGame(client *apiClient, logger *slog.Logger) uuid.UUID {
	input, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Enrollment timeout in seconds (empty for default)").
		Show()
	var timeoutSeconds int64
	if input != "" {
		parsed, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			logger.Error("not a number: " + input)
			return uuid.Nil
		}
		timeoutSeconds = parsed
	}

	gameID, err := client.createGame(timeoutSeconds)
	if err != nil {
		logger.Error(err.Error())
		return uuid.Nil
	}
	pterm.Success.Printfln("Game created: %s", pterm.LightCyan(gameID.String()))
	return gameID
}

func enrollGame(client *apiClient, logger *slog.Logger) uuid.UUID {
	games, err := client.openGames()
	if err != nil {
		logger.Error(err.Error())
		return uuid.Nil
	}
	if len(games) == 0 {
		pterm.Info.Println("No open games to join")
		return uuid.Nil
	}

	options := make([]string, len(games))
	for i, g := range games {
		options[i] = pterm.Sprintf("%s by %s (%d/%d)", g.ID, g.CreatorEmail, g.EnrolledCount, g.MaxPlayers)
	}
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Pick a game to join").
		WithOptions(options).
		Show()
	var gameID uuid.UUID
	for i, o := range options {
		if o == choice {
			gameID = games[i].ID
		}
	}

	if err := client.enroll(gameID); err != nil {
		logger.Error(err.Error())
		return uuid.Nil
	}
	pterm.Success.Println("Enrolled, waiting for the creator to start")
	return gameID
}

func closeEnrollment(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	turnOrder, err := client.closeEnrollment(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	pterm.Success.Printfln("Game started! Turn order: %v", turnOrder)
}

func drawCard(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	result, err := client.draw(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	pterm.Info.Printfln("You drew %s, hand is now %d points",
		pterm.LightCyan(cardLabel(result.Card)), result.CurrentPoints)
	if result.Busted {
		pterm.Error.Println("Busted!")
	}
	if result.GameFinished {
		pterm.Info.Println("Game finished, check the results")
	}
}

func stand(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	state, err := client.stand(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	pterm.Success.Println("Standing")
	if state.Finished {
		pterm.Info.Println("Game finished, check the results")
	}
}

func toggleAce(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	input, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Ace card ID").Show()
	cardID, err := uuid.Parse(input)
	if err != nil {
		logger.Error("invalid card ID: " + input)
		return
	}
	asEleven, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Count this ace as 11?").
		WithDefaultValue(true).
		Show()

	if err := client.setAce(gameID, cardID, asEleven); err != nil {
		logger.Error(err.Error())
		return
	}
	pterm.Success.Println("Ace value updated")
}

func showState(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	state, err := client.state(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}

	rows := pterm.TableData{{"Player", "Points", "State"}}
	for email, p := range state.Players {
		label := p.State
		if p.Busted {
			label = pterm.LightRed(label)
		} else if email == state.CurrentPlayer {
			label = pterm.LightGreen(label + " (on turn)")
		}
		rows = append(rows, []string{email, strconv.Itoa(p.Points), label})
	}
	pterm.Info.Printfln("Phase: %s", state.Phase)
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func showResults(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	results, err := client.results(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	printResults(results)
}

func finishGame(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	confirm, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText("Finish the game for everyone?").
		Show()
	if !confirm {
		return
	}
	results, err := client.finish(gameID)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	printResults(results)
}

func invitePlayer(client *apiClient, logger *slog.Logger, gameID uuid.UUID) {
	if !requireGame(gameID) {
		return
	}
	email, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Invitee email").Show()
	if err := client.invite(gameID, email); err != nil {
		logger.Error(err.Error())
		return
	}
	pterm.Success.Printfln("Invitation sent to %s", pterm.LightCyan(email))
}

func myInvitations(client *apiClient, logger *slog.Logger, current uuid.UUID) uuid.UUID {
	invitations, err := client.pendingInvitations()
	if err != nil {
		logger.Error(err.Error())
		return current
	}
	if len(invitations) == 0 {
		pterm.Info.Println("No pending invitations")
		return current
	}

	options := make([]string, 0, len(invitations)+1)
	for _, inv := range invitations {
		options = append(options, pterm.Sprintf("Game %s (expires %s)", inv.GameID, inv.ExpiresAt.Format("15:04:05")))
	}
	options = append(options, "Back")
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Accept an invitation?").
		WithOptions(options).
		Show()
	if choice == "Back" {
		return current
	}
	for i, o := range options {
		if o == choice {
			inv := invitations[i]
			if err := client.acceptInvitation(inv.ID); err != nil {
				logger.Error(err.Error())
				return current
			}
			pterm.Success.Println("Invitation accepted, you are enrolled")
			return inv.GameID
		}
	}
	return current
}

func requireGame(gameID uuid.UUID) bool {
	if gameID == uuid.Nil {
		pterm.Warning.Println("No game selected; create, enroll or accept an invitation first")
		return false
	}
	return true
}

func cardLabel(c card) string {
	return c.Name + " of " + c.Suit
}

func printResults(r *gameResults) {
	rows := pterm.TableData{{"Player", "Points", "Outcome"}}
	for email, pr := range r.PlayerResults {
		outcome := pr.Outcome
		switch outcome {
		case "won":
			outcome = pterm.LightGreen(outcome)
		case "busted", "lost":
			outcome = pterm.LightRed(outcome)
		}
		rows = append(rows, []string{email, strconv.Itoa(pr.Points), outcome})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	dealer := pterm.Sprintf("Dealer: %d points", r.DealerPoints)
	if r.DealerBusted {
		dealer += pterm.LightRed(" (busted)")
	}
	pterm.Info.Println(dealer)

	switch {
	case r.Winner != "":
		pterm.Success.Printfln("Winner: %s with %d points", pterm.LightCyan(r.Winner), r.HighestScore)
	case len(r.TiedPlayers) > 0:
		pterm.Info.Printfln("Tie between %v at %d points", r.TiedPlayers, r.HighestScore)
	default:
		pterm.Info.Println("Nobody beat the dealer this time")
	}
}
