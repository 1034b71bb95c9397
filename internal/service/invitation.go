package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/attaboy/blackjack/internal/domain"
	"github.com/google/uuid"
)

// InvitationService is the in-memory invitation registry. Expiry is lazy:
// invitations flip to expired when read after their deadline, there is no
// background sweeper.
type InvitationService struct {
	mu          sync.Mutex
	invitations map[uuid.UUID]*domain.Invitation
	logger      *slog.Logger
}

// NewInvitationService creates an empty invitation registry.
func NewInvitationService(logger *slog.Logger) *InvitationService {
	return &InvitationService{
		invitations: make(map[uuid.UUID]*domain.Invitation),
		logger:      logger,
	}
}

// InvitationInfo is the external view of an invitation.
type InvitationInfo struct {
	ID           uuid.UUID               `json:"id"`
	GameID       uuid.UUID               `json:"game_id"`
	InviterID    uuid.UUID               `json:"inviter_id"`
	InviteeEmail string                  `json:"invitee_email"`
	Status       domain.InvitationStatus `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
	ExpiresAt    time.Time               `json:"expires_at"`
}

// Create records a pending invitation. The caller is responsible for
// authorizing the inviter against the game first.
func (s *InvitationService) Create(gameID, inviterID uuid.UUID, inviteeEmail string, expiresAt time.Time) (*InvitationInfo, error) {
	if err := domain.ValidateEmail(inviteeEmail); err != nil {
		return nil, domain.ErrInvalidEmail(err.Error())
	}

	inv := domain.NewInvitation(gameID, inviterID, inviteeEmail, expiresAt)

	s.mu.Lock()
	s.invitations[inv.ID] = inv
	s.mu.Unlock()

	s.logger.Info("invitation created", "invitation_id", inv.ID, "game_id", gameID, "invitee", inviteeEmail)
	return toInfo(inv), nil
}

// Accept marks a pending invitation accepted and returns it so the caller
// can enroll the invitee. An expired invitation is flipped to expired and
// rejected.
func (s *InvitationService) Accept(invitationID uuid.UUID) (*InvitationInfo, error) {
	return s.resolve(invitationID, domain.InvitationAccepted)
}

// Decline marks a pending invitation declined.
func (s *InvitationService) Decline(invitationID uuid.UUID) (*InvitationInfo, error) {
	return s.resolve(invitationID, domain.InvitationDeclined)
}

func (s *InvitationService) resolve(invitationID uuid.UUID, to domain.InvitationStatus) (*InvitationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[invitationID]
	if !ok {
		return nil, domain.ErrInvitationNotFound()
	}
	if inv.Status == domain.InvitationPending && inv.IsExpired() {
		inv.Status = domain.InvitationExpired
	}
	switch inv.Status {
	case domain.InvitationPending:
		inv.Status = to
		return toInfo(inv), nil
	case domain.InvitationExpired:
		return nil, domain.ErrInvitationExpired()
	default:
		// Accepted and declined are terminal.
		return nil, domain.ErrInvitationNotFound()
	}
}

// Get returns an invitation by ID, lazily expiring it.
func (s *InvitationService) Get(invitationID uuid.UUID) (*InvitationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[invitationID]
	if !ok {
		return nil, domain.ErrInvitationNotFound()
	}
	if inv.Status == domain.InvitationPending && inv.IsExpired() {
		inv.Status = domain.InvitationExpired
	}
	return toInfo(inv), nil
}

// GetPendingFor lists pending, unexpired invitations addressed to the email.
func (s *InvitationService) GetPendingFor(email string) []InvitationInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]InvitationInfo, 0)
	for _, inv := range s.invitations {
		if inv.InviteeEmail != email {
			continue
		}
		if inv.Status == domain.InvitationPending && inv.IsExpired() {
			inv.Status = domain.InvitationExpired
		}
		if inv.Status == domain.InvitationPending {
			pending = append(pending, *toInfo(inv))
		}
	}
	return pending
}

// CleanupExpired drops terminal invitations older than the retention window
// and returns how many were removed.
func (s *InvitationService) CleanupExpired(retention time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	removed := 0
	for id, inv := range s.invitations {
		if inv.Status == domain.InvitationPending && inv.IsExpired() {
			inv.Status = domain.InvitationExpired
		}
		if inv.Status != domain.InvitationPending && inv.ExpiresAt.Before(cutoff) {
			delete(s.invitations, id)
			removed++
		}
	}
	return removed
}

func toInfo(inv *domain.Invitation) *InvitationInfo {
	return &InvitationInfo{
		ID:           inv.ID,
		GameID:       inv.GameID,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt,
		ExpiresAt:    inv.ExpiresAt,
	}
}
