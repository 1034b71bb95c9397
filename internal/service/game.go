package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/attaboy/blackjack/internal/domain"
	"github.com/google/uuid"
)

// GameNotifier publishes game events to connected clients. The websocket hub
// implements it; tests pass nil.
type GameNotifier interface {
	Publish(gameID uuid.UUID, event string, payload any)
}

// GameService is the registry and façade over all in-memory games. A single
// coarse mutex serializes every game operation; engine calls are pure CPU
// work so the critical sections stay short.
type GameService struct {
	mu    sync.Mutex
	games map[uuid.UUID]*domain.Game
	// recorded marks games whose outcomes were already folded into user
	// stats, so a game settles exactly once.
	recorded map[uuid.UUID]bool

	identity       *IdentityService
	notifier       GameNotifier
	defaultTimeout int64
	maxTimeout     int64
	maxPlayers     int
	minPlayers     int
	logger         *slog.Logger
}

// NewGameService creates an empty game registry. Non-positive player bounds
// take the defaults (cap MaxPlayersPerGame, minimum 1).
func NewGameService(identity *IdentityService, notifier GameNotifier, defaultTimeoutSeconds, maxTimeoutSeconds int64, maxPlayers, minPlayers int, logger *slog.Logger) *GameService {
	if maxPlayers <= 0 {
		maxPlayers = domain.MaxPlayersPerGame
	}
	if minPlayers < 1 {
		minPlayers = 1
	}
	return &GameService{
		games:          make(map[uuid.UUID]*domain.Game),
		recorded:       make(map[uuid.UUID]bool),
		identity:       identity,
		notifier:       notifier,
		defaultTimeout: defaultTimeoutSeconds,
		maxTimeout:     maxTimeoutSeconds,
		maxPlayers:     maxPlayers,
		minPlayers:     minPlayers,
		logger:         logger,
	}
}

// GameInfo is the listing view of a joinable game.
type GameInfo struct {
	ID                   uuid.UUID `json:"id"`
	CreatorEmail         string    `json:"creator_email"`
	EnrolledCount        int       `json:"enrolled_count"`
	MaxPlayers           int       `json:"max_players"`
	EnrollmentClosesAt   time.Time `json:"enrollment_closes_at"`
	TimeRemainingSeconds int64     `json:"time_remaining_seconds"`
}

// GameStateResponse is the common post-action view of a game.
type GameStateResponse struct {
	GameID           uuid.UUID                 `json:"game_id"`
	Phase            domain.Phase              `json:"phase"`
	Finished         bool                      `json:"finished"`
	CurrentPlayer    string                    `json:"current_player,omitempty"`
	TurnOrder        []string                  `json:"turn_order"`
	CardsRemaining   int                       `json:"cards_remaining"`
	Players          map[string]PlayerSnapshot `json:"players"`
	EnrollmentOpen   bool                      `json:"enrollment_open"`
	EnrollmentCloses time.Time                 `json:"enrollment_closes_at"`
}

// PlayerSnapshot is the per-player view inside a game state response.
type PlayerSnapshot struct {
	Points     int                `json:"points"`
	CardsCount int                `json:"cards_count"`
	State      domain.PlayerState `json:"state"`
	Busted     bool               `json:"busted"`
}

// DrawCardResponse reports the drawn card and the hand after the draw.
type DrawCardResponse struct {
	Card           domain.Card   `json:"card"`
	CurrentPoints  int           `json:"current_points"`
	Busted         bool          `json:"busted"`
	CardsRemaining int           `json:"cards_remaining"`
	CardsHistory   []domain.Card `json:"cards_history"`
	GameFinished   bool          `json:"game_finished"`
}

// PlayerStateResponse is the hand view after an ace toggle.
type PlayerStateResponse struct {
	Email        string             `json:"email"`
	Points       int                `json:"points"`
	State        domain.PlayerState `json:"state"`
	Busted       bool               `json:"busted"`
	CardsHistory []domain.Card      `json:"cards_history"`
	AceValues    map[uuid.UUID]bool `json:"ace_values"`
}

// CreateGame creates a game with the caller auto-enrolled as creator. A zero
// or negative timeout takes the configured default; a timeout above the
// configured maximum is rejected.
func (s *GameService) CreateGame(creatorID uuid.UUID, enrollmentTimeoutSeconds int64) (*domain.Game, error) {
	creator, err := s.identity.Get(creatorID)
	if err != nil {
		return nil, err
	}

	if enrollmentTimeoutSeconds <= 0 {
		enrollmentTimeoutSeconds = s.defaultTimeout
	}
	if enrollmentTimeoutSeconds > s.maxTimeout {
		return nil, domain.ErrInvalidTimeout(s.maxTimeout)
	}

	game, err := domain.NewGame(creatorID, creator.Email, enrollmentTimeoutSeconds, s.maxPlayers)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	s.logger.Info("game created",
		"game_id", game.ID,
		"creator", creator.Email,
		"enrollment_timeout_seconds", enrollmentTimeoutSeconds)
	return game, nil
}

// GetOpenGames lists unfinished games whose enrollment window is still open,
// excluding games the given user already participates in. uuid.Nil excludes
// nothing.
func (s *GameService) GetOpenGames(excludeUser uuid.UUID) []GameInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := make([]GameInfo, 0)
	for _, g := range s.games {
		if g.Finished || !g.IsEnrollmentOpen() {
			continue
		}
		if excludeUser != uuid.Nil && g.IsParticipant(excludeUser) {
			continue
		}
		creatorEmail := ""
		if p, ok := g.Participants[g.CreatorID]; ok {
			creatorEmail = p.Email
		}
		open = append(open, GameInfo{
			ID:                   g.ID,
			CreatorEmail:         creatorEmail,
			EnrolledCount:        len(g.Players),
			MaxPlayers:           g.MaxPlayers,
			EnrollmentClosesAt:   g.EnrollmentExpiresAt(),
			TimeRemainingSeconds: g.EnrollmentTimeRemaining(),
		})
	}
	return open
}

// EnrollPlayer enrolls the user in the game. The enrollment window is
// enforced here: the engine treats the timeout as advisory, the façade does
// not.
func (s *GameService) EnrollPlayer(gameID, userID uuid.UUID) (*domain.Game, error) {
	user, err := s.identity.Get(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	if !g.IsEnrollmentOpen() {
		return nil, domain.ErrEnrollmentClosed()
	}
	if !g.CanEnroll() {
		return nil, domain.ErrGameFull()
	}
	if err := g.AddPlayer(user.Email); err != nil {
		return nil, err
	}
	g.AddParticipant(userID, user.Email)

	s.publish(g.ID, "player_enrolled", map[string]any{"email": user.Email})
	s.logger.Info("player enrolled", "game_id", gameID, "email", user.Email)
	return g, nil
}

// CloseEnrollment transitions the game to the play phase. Creator only, and
// the game must hold at least the configured minimum of players.
func (s *GameService) CloseEnrollment(gameID, userID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	if !g.CanUserPerform(userID, domain.PermissionCloseEnrollment) {
		return nil, domain.ErrNotGameCreator()
	}
	if len(g.Players) < s.minPlayers {
		return nil, domain.ErrInvalidPlayerCount(s.minPlayers, g.MaxPlayers, len(g.Players))
	}
	if err := g.CloseEnrollment(); err != nil {
		return nil, err
	}

	s.publish(g.ID, "enrollment_closed", map[string]any{"turn_order": g.TurnOrder})
	s.logger.Info("enrollment closed", "game_id", gameID, "players", len(g.Players))
	return g.TurnOrder, nil
}

// DrawCard draws a card for the calling user.
func (s *GameService) DrawCard(gameID, userID uuid.UUID) (*DrawCardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	email, err := s.participantEmail(g, userID)
	if err != nil {
		return nil, err
	}

	card, err := g.DrawCard(email)
	if err != nil {
		return nil, err
	}
	p := g.Players[email]

	s.publish(g.ID, "card_drawn", map[string]any{"email": email, "points": p.Points, "busted": p.Busted})
	s.settleIfFinished(g)

	return &DrawCardResponse{
		Card:           card,
		CurrentPoints:  p.Points,
		Busted:         p.Busted,
		CardsRemaining: len(g.AvailableCards),
		CardsHistory:   append([]domain.Card(nil), p.CardsHistory...),
		GameFinished:   g.Finished,
	}, nil
}

// Stand marks the calling user as standing.
func (s *GameService) Stand(gameID, userID uuid.UUID) (*GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	email, err := s.participantEmail(g, userID)
	if err != nil {
		return nil, err
	}

	if err := g.Stand(email); err != nil {
		return nil, err
	}

	s.publish(g.ID, "player_standing", map[string]any{"email": email})
	s.settleIfFinished(g)
	return s.stateLocked(g), nil
}

// SetAceValue toggles one of the calling user's aces between 1 and 11.
func (s *GameService) SetAceValue(gameID, userID, cardID uuid.UUID, asEleven bool) (*PlayerStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	email, err := s.participantEmail(g, userID)
	if err != nil {
		return nil, err
	}

	if err := g.SetAceValue(email, cardID, asEleven); err != nil {
		return nil, err
	}
	p := g.Players[email]

	aceValues := make(map[uuid.UUID]bool, len(p.AceValues))
	for id, v := range p.AceValues {
		aceValues[id] = v
	}
	return &PlayerStateResponse{
		Email:        email,
		Points:       p.Points,
		State:        p.State,
		Busted:       p.Busted,
		CardsHistory: append([]domain.Card(nil), p.CardsHistory...),
		AceValues:    aceValues,
	}, nil
}

// KickPlayer removes a player during enrollment. Requires the kick
// permission; the creator can never be kicked.
func (s *GameService) KickPlayer(gameID, kickerID, targetID uuid.UUID) (*GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	if err := g.KickPlayer(kickerID, targetID); err != nil {
		return nil, err
	}

	s.publish(g.ID, "player_kicked", map[string]any{"user_id": targetID})
	return s.stateLocked(g), nil
}

// FinishGame force-finishes a game and returns its settlement. Creator only,
// idempotent: finishing a finished game returns the results again.
func (s *GameService) FinishGame(gameID, userID uuid.UUID) (*domain.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	if !g.CanUserPerform(userID, domain.PermissionFinishGame) {
		return nil, domain.ErrNotGameCreator()
	}

	g.Finish()
	s.settleIfFinished(g)
	result := g.CalculateResults()

	s.publish(g.ID, "game_finished", result)
	s.logger.Info("game finished", "game_id", gameID, "winner", result.Winner)
	return result, nil
}

// GetGameState returns the current view of the game.
func (s *GameService) GetGameState(gameID uuid.UUID) (*GameStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	return s.stateLocked(g), nil
}

// GetGameResults returns the settlement of a finished game.
func (s *GameService) GetGameResults(gameID uuid.UUID) (*domain.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound()
	}
	if !g.Finished {
		return nil, domain.ErrGameNotActive()
	}
	return g.CalculateResults(), nil
}

// AuthorizeInvite checks the inviter may invite into the game and returns
// the enrollment window expiry the invitation inherits.
func (s *GameService) AuthorizeInvite(gameID, inviterID uuid.UUID) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return time.Time{}, domain.ErrGameNotFound()
	}
	if g.Finished {
		return time.Time{}, domain.ErrGameFinished()
	}
	if !g.IsEnrollmentOpen() {
		return time.Time{}, domain.ErrEnrollmentClosed()
	}
	if !g.CanUserPerform(inviterID, domain.PermissionInvitePlayers) {
		return time.Time{}, domain.ErrInsufficientPermissions()
	}
	return g.EnrollmentExpiresAt(), nil
}

// participantEmail resolves the caller's in-game email. Caller holds the lock.
func (s *GameService) participantEmail(g *domain.Game, userID uuid.UUID) (string, error) {
	p, ok := g.Participants[userID]
	if !ok {
		return "", domain.ErrPlayerNotInGame()
	}
	return p.Email, nil
}

// settleIfFinished folds outcomes into user stats exactly once per game.
// Caller holds the lock.
func (s *GameService) settleIfFinished(g *domain.Game) {
	if !g.Finished || s.recorded[g.ID] {
		return
	}
	s.recorded[g.ID] = true

	result := g.CalculateResults()
	for email, r := range result.PlayerResults {
		s.identity.RecordGameOutcome(email, r.Outcome, r.Points)
	}
}

// stateLocked builds a state response. Caller holds the lock.
func (s *GameService) stateLocked(g *domain.Game) *GameStateResponse {
	players := make(map[string]PlayerSnapshot, len(g.Players))
	for email, p := range g.Players {
		players[email] = PlayerSnapshot{
			Points:     p.Points,
			CardsCount: len(p.CardsHistory),
			State:      p.State,
			Busted:     p.Busted,
		}
	}

	resp := &GameStateResponse{
		GameID:           g.ID,
		Phase:            g.Phase(),
		Finished:         g.Finished,
		TurnOrder:        append([]string(nil), g.TurnOrder...),
		CardsRemaining:   len(g.AvailableCards),
		Players:          players,
		EnrollmentOpen:   g.IsEnrollmentOpen(),
		EnrollmentCloses: g.EnrollmentExpiresAt(),
	}
	if !g.Finished && g.EnrollmentClosed {
		if current, ok := g.CurrentPlayer(); ok {
			resp.CurrentPlayer = current
		}
	}
	return resp
}

func (s *GameService) publish(gameID uuid.UUID, event string, payload any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(gameID, event, payload)
}
