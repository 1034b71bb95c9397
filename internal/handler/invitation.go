package handler

import (
	"net/http"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/domain"
	"github.com/attaboy/blackjack/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// InvitationHandler handles invitation endpoints.
type InvitationHandler struct {
	invitations *service.InvitationService
	games       *service.GameService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitations *service.InvitationService, games *service.GameService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations, games: games}
}

// Create handles POST /invitations.
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input struct {
		GameID       uuid.UUID `json:"game_id"`
		InviteeEmail string    `json:"invitee_email"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	expiresAt, err := h.games.AuthorizeInvite(input.GameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	inv, err := h.invitations.Create(input.GameID, userID, input.InviteeEmail, expiresAt)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, inv)
}

// Accept handles POST /invitations/{id}/accept. Only the invited email may
// accept; acceptance enrolls the caller into the game.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	invID, ok := invitationIDParam(w, r)
	if !ok {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())

	inv, err := h.invitations.Get(invID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if claims == nil || claims.Email != inv.InviteeEmail {
		RespondError(w, domain.ErrInsufficientPermissions())
		return
	}

	accepted, err := h.invitations.Accept(invID)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.games.EnrollPlayer(accepted.GameID, userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"invitation": accepted,
		"game_id":    game.ID,
		"turn_order": game.TurnOrder,
	})
}

// Decline handles POST /invitations/{id}/decline.
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	invID, ok := invitationIDParam(w, r)
	if !ok {
		return
	}

	inv, err := h.invitations.Decline(invID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, inv)
}

// ListPending handles GET /invitations/pending.
func (h *InvitationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	RespondJSON(w, http.StatusOK, map[string]any{
		"invitations": h.invitations.GetPendingFor(claims.Email),
	})
}

func invitationIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrInvitationNotFound())
		return uuid.Nil, false
	}
	return id, true
}
