package handler

import (
	"net/http"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/domain"
	"github.com/attaboy/blackjack/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GameHandler handles game lifecycle and play endpoints.
type GameHandler struct {
	games *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// Create handles POST /games.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input struct {
		EnrollmentTimeoutSeconds int64 `json:"enrollment_timeout_seconds"`
	}
	// An empty body means default timeout.
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &input); err != nil {
			RespondBadBody(w)
			return
		}
	}

	game, err := h.games.CreateGame(userID, input.EnrollmentTimeoutSeconds)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]any{
		"id":                         game.ID,
		"enrollment_timeout_seconds": game.EnrollmentTimeoutSeconds,
		"enrollment_closes_at":       game.EnrollmentExpiresAt(),
		"turn_order":                 game.TurnOrder,
	})
}

// ListOpen handles GET /games/open.
func (h *GameHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	RespondJSON(w, http.StatusOK, map[string]any{
		"games": h.games.GetOpenGames(userID),
	})
}

// Enroll handles POST /games/{id}/enroll.
func (h *GameHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	game, err := h.games.EnrollPlayer(gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"game_id":        game.ID,
		"enrolled_count": len(game.Players),
		"turn_order":     game.TurnOrder,
	})
}

// CloseEnrollment handles POST /games/{id}/close.
func (h *GameHandler) CloseEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	turnOrder, err := h.games.CloseEnrollment(gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"game_id":    gameID,
		"turn_order": turnOrder,
	})
}

// Draw handles POST /games/{id}/draw.
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.games.DrawCard(gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Stand handles POST /games/{id}/stand.
func (h *GameHandler) Stand(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.games.Stand(gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, state)
}

// SetAceValue handles POST /games/{id}/ace.
func (h *GameHandler) SetAceValue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var input struct {
		CardID   uuid.UUID `json:"card_id"`
		AsEleven bool      `json:"as_eleven"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	state, err := h.games.SetAceValue(gameID, userID, input.CardID, input.AsEleven)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, state)
}

// Kick handles POST /games/{id}/kick.
func (h *GameHandler) Kick(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var input struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	state, err := h.games.KickPlayer(gameID, userID, input.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, state)
}

// Finish handles POST /games/{id}/finish.
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.games.FinishGame(gameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// State handles GET /games/{id}.
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	state, err := h.games.GetGameState(gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, state)
}

// Results handles GET /games/{id}/results.
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.games.GetGameResults(gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// gameIDParam parses the {id} URL parameter or writes a 404.
func gameIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrGameNotFound())
		return uuid.Nil, false
	}
	return id, true
}
