package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the lifecycle state of a game invitation. Accepted,
// Declined and Expired are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation invites a user (by email) into a game. ExpiresAt is copied
// from the target game's enrollment window at creation.
type Invitation struct {
	ID           uuid.UUID        `json:"id"`
	GameID       uuid.UUID        `json:"game_id"`
	InviterID    uuid.UUID        `json:"inviter_id"`
	InviteeEmail string           `json:"invitee_email"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

// NewInvitation creates a pending invitation expiring with the game's
// enrollment window.
func NewInvitation(gameID, inviterID uuid.UUID, inviteeEmail string, enrollmentExpiresAt time.Time) *Invitation {
	return &Invitation{
		ID:           uuid.New(),
		GameID:       gameID,
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Status:       InvitationPending,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    enrollmentExpiresAt,
	}
}

// IsExpired reports whether the expiry instant has passed.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
