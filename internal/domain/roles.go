package domain

// GameRole identifies a participant's role within one game.
type GameRole string

const (
	RoleCreator   GameRole = "creator"
	RolePlayer    GameRole = "player"
	RoleSpectator GameRole = "spectator"
)

// Permission is a specific gated action within a game.
type Permission string

const (
	PermissionInvitePlayers   Permission = "invite_players"
	PermissionKickPlayers     Permission = "kick_players"
	PermissionCloseEnrollment Permission = "close_enrollment"
	PermissionFinishGame      Permission = "finish_game"
	PermissionModifySettings  Permission = "modify_settings"
)

// HasPermission reports whether the role grants the permission. The creator
// holds every permission; players and spectators hold none (players still
// perform their own draws and stands, which are not permission-gated).
func (r GameRole) HasPermission(Permission) bool {
	return r == RoleCreator
}

// Permissions returns every permission the role holds.
func (r GameRole) Permissions() []Permission {
	if r != RoleCreator {
		return nil
	}
	return []Permission{
		PermissionInvitePlayers,
		PermissionKickPlayers,
		PermissionCloseEnrollment,
		PermissionFinishGame,
		PermissionModifySettings,
	}
}
