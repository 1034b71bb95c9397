package handler

import (
	"net/http"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/domain"
	"github.com/attaboy/blackjack/internal/service"
	"github.com/google/uuid"
)

// AuthHandler handles registration, login and account endpoints.
type AuthHandler struct {
	identity *service.IdentityService
	jwtMgr   *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *service.IdentityService, jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{identity: identity, jwtMgr: jwtMgr}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	user, err := h.identity.Register(input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"is_active":  user.IsActive,
		"created_at": user.CreatedAt,
	})
}

// Login handles POST /auth/login and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	user, err := h.identity.Login(input)
	if err != nil {
		RespondError(w, err)
		return
	}

	token, err := h.jwtMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		RespondError(w, domain.ErrInternal("generate token", err))
		return
	}

	RespondJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int64(h.jwtMgr.Expiry().Seconds()),
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// ChangePassword handles POST /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	if err := h.identity.ChangePassword(userID, input.CurrentPassword, input.NewPassword); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.identity.Get(userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, user)
}

// Stats handles GET /users/me/stats.
func (h *AuthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.identity.Get(userID)
	if err != nil {
		RespondError(w, err)
		return
	}

	stats := user.Stats
	if stats == nil {
		stats = &domain.UserStats{}
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"stats":          stats,
		"win_rate":       stats.WinRate(),
		"average_points": stats.AveragePoints(),
	})
}

// requireUser resolves the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		RespondError(w, domain.ErrUnauthorized())
		return uuid.Nil, false
	}
	return userID, true
}
