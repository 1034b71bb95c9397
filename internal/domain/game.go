package domain

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPlayersPerGame is the default cap on enrolled players per game, used
// when NewGame is given no explicit cap.
const MaxPlayersPerGame = 10

// DealerEmail is the reserved email of the synthetic dealer. Registration
// rejects it so a real account can never collide with the dealer.
const DealerEmail = "dealer"

// dealerStandThreshold is the point total at which the dealer stops drawing.
const dealerStandThreshold = 17

// Phase is the logical lifecycle phase of a game, derived from the two
// transition flags. TurnOrder and hands are immutable once the game reaches
// PhaseFinished.
type Phase string

const (
	PhaseEnrollment Phase = "enrollment"
	PhasePlay       Phase = "play"
	PhaseFinished   Phase = "finished"
)

// Participant ties a user to a game with a role, distinct from the
// gameplay-facing Player record.
type Participant struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     GameRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewParticipant creates a participant joined now.
func NewParticipant(userID uuid.UUID, email string, role GameRole) *Participant {
	return &Participant{UserID: userID, Email: email, Role: role, JoinedAt: time.Now().UTC()}
}

// Game is the per-game state machine: deck, enrolled players, role
// assignments, turn order and dealer. All state transitions and invariant
// checks live here; the engine never performs I/O. Callers must serialize
// access (the game registry holds a lock for the duration of each call).
type Game struct {
	ID                       uuid.UUID                  `json:"id"`
	CreatorID                uuid.UUID                  `json:"creator_id"`
	Participants             map[uuid.UUID]*Participant `json:"participants"`
	Players                  map[string]*Player         `json:"players"`
	Dealer                   *Player                    `json:"dealer"`
	AvailableCards           []Card                     `json:"available_cards"`
	TurnOrder                []string                   `json:"turn_order"`
	CurrentTurnIndex         int                        `json:"current_turn_index"`
	MaxPlayers               int                        `json:"max_players"`
	EnrollmentTimeoutSeconds int64                      `json:"enrollment_timeout_seconds"`
	EnrollmentStartTime      time.Time                  `json:"enrollment_start_time"`
	EnrollmentClosed         bool                       `json:"enrollment_closed"`
	Finished                 bool                       `json:"finished"`
	Active                   bool                       `json:"active"`
}

// NewGame creates a game in the enrollment phase with the creator
// auto-enrolled as the first player and the Creator participant. A
// non-positive maxPlayers takes the default cap.
func NewGame(creatorID uuid.UUID, creatorEmail string, enrollmentTimeoutSeconds int64, maxPlayers int) (*Game, error) {
	if strings.TrimSpace(creatorEmail) == "" {
		return nil, ErrInvalidEmail("creator email cannot be empty")
	}
	if maxPlayers <= 0 {
		maxPlayers = MaxPlayersPerGame
	}

	g := &Game{
		ID:                       uuid.New(),
		CreatorID:                creatorID,
		Participants:             make(map[uuid.UUID]*Participant),
		Players:                  make(map[string]*Player),
		Dealer:                   NewPlayer(DealerEmail),
		AvailableCards:           NewDeck(),
		TurnOrder:                []string{creatorEmail},
		MaxPlayers:               maxPlayers,
		EnrollmentTimeoutSeconds: enrollmentTimeoutSeconds,
		EnrollmentStartTime:      time.Now().UTC(),
		Active:                   true,
	}
	g.Players[creatorEmail] = NewPlayer(creatorEmail)
	g.Participants[creatorID] = NewParticipant(creatorID, creatorEmail, RoleCreator)
	return g, nil
}

// Phase derives the lifecycle phase from the transition flags.
func (g *Game) Phase() Phase {
	switch {
	case g.Finished:
		return PhaseFinished
	case g.EnrollmentClosed:
		return PhasePlay
	default:
		return PhaseEnrollment
	}
}

// IsEnrollmentOpen reports whether enrollment has not been closed and the
// advisory timeout window has not elapsed.
func (g *Game) IsEnrollmentOpen() bool {
	if g.EnrollmentClosed {
		return false
	}
	elapsed := time.Since(g.EnrollmentStartTime)
	return elapsed < time.Duration(g.EnrollmentTimeoutSeconds)*time.Second
}

// CanEnroll reports whether enrollment is open and a seat is available.
func (g *Game) CanEnroll() bool {
	return g.IsEnrollmentOpen() && len(g.Players) < g.MaxPlayers
}

// EnrollmentExpiresAt returns the instant the enrollment window lapses.
func (g *Game) EnrollmentExpiresAt() time.Time {
	return g.EnrollmentStartTime.Add(time.Duration(g.EnrollmentTimeoutSeconds) * time.Second)
}

// EnrollmentTimeRemaining returns whole seconds until the enrollment window
// lapses, or 0 once closed or elapsed.
func (g *Game) EnrollmentTimeRemaining() int64 {
	if g.EnrollmentClosed {
		return 0
	}
	remaining := int64(time.Until(g.EnrollmentExpiresAt()).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AddPlayer enrolls a player while enrollment is open. The enrollment
// timeout is advisory and not enforced here; the service layer filters on it.
func (g *Game) AddPlayer(email string) error {
	if !g.Active {
		return ErrGameNotActive()
	}
	if g.Finished {
		return ErrGameFinished()
	}
	if g.EnrollmentClosed {
		return ErrEnrollmentClosed()
	}
	if strings.TrimSpace(email) == "" {
		return ErrInvalidEmail("player email cannot be empty")
	}
	if _, ok := g.Players[email]; ok {
		return ErrPlayerAlreadyEnrolled()
	}
	if len(g.Players) >= g.MaxPlayers {
		return ErrInvalidPlayerCount(1, g.MaxPlayers, len(g.Players)+1)
	}

	g.Players[email] = NewPlayer(email)
	g.TurnOrder = append(g.TurnOrder, email)
	return nil
}

// AddParticipant registers a user as a Player-role participant.
func (g *Game) AddParticipant(userID uuid.UUID, email string) {
	g.Participants[userID] = NewParticipant(userID, email, RolePlayer)
}

// ParticipantRole returns the user's role, or false if not a participant.
func (g *Game) ParticipantRole(userID uuid.UUID) (GameRole, bool) {
	p, ok := g.Participants[userID]
	if !ok {
		return "", false
	}
	return p.Role, true
}

// CanUserPerform reports whether the user holds the permission in this game.
func (g *Game) CanUserPerform(userID uuid.UUID, perm Permission) bool {
	role, ok := g.ParticipantRole(userID)
	return ok && role.HasPermission(perm)
}

// IsCreator reports whether the user created this game.
func (g *Game) IsCreator(userID uuid.UUID) bool { return g.CreatorID == userID }

// IsParticipant reports whether the user is enrolled in this game.
func (g *Game) IsParticipant(userID uuid.UUID) bool {
	_, ok := g.Participants[userID]
	return ok
}

// KickPlayer removes the target from participants, players and turn order.
// Requires the KickPlayers permission, never removes the creator, and is
// only legal while enrollment is open.
func (g *Game) KickPlayer(kickerID, targetID uuid.UUID) error {
	if g.Finished {
		return ErrGameFinished()
	}
	if !g.CanUserPerform(kickerID, PermissionKickPlayers) {
		return ErrInsufficientPermissions()
	}
	if g.IsCreator(targetID) {
		return ErrCannotKickCreator()
	}
	if g.EnrollmentClosed {
		return ErrEnrollmentClosed()
	}
	target, ok := g.Participants[targetID]
	if !ok {
		return ErrPlayerNotInGame()
	}

	delete(g.Participants, targetID)
	delete(g.Players, target.Email)
	for i, email := range g.TurnOrder {
		if email == target.Email {
			g.TurnOrder = append(g.TurnOrder[:i], g.TurnOrder[i+1:]...)
			break
		}
	}
	return nil
}

// CloseEnrollment finalizes the turn order and transitions to the play
// phase. The first enrolled player acts first.
func (g *Game) CloseEnrollment() error {
	if g.Finished {
		return ErrGameFinished()
	}
	g.EnrollmentClosed = true
	g.CurrentTurnIndex = 0
	return nil
}

// CurrentPlayer returns the email of the player whose turn it is.
func (g *Game) CurrentPlayer() (string, bool) {
	if g.CurrentTurnIndex >= len(g.TurnOrder) {
		return "", false
	}
	return g.TurnOrder[g.CurrentTurnIndex], true
}

// CanPlayerAct reports whether it is the player's turn and they are active.
func (g *Game) CanPlayerAct(email string) bool {
	if !g.EnrollmentClosed {
		return false
	}
	current, ok := g.CurrentPlayer()
	if !ok || current != email {
		return false
	}
	p, ok := g.Players[email]
	return ok && p.State == StateActive
}

// advanceTurn rotates to the next active player, wrapping modulo the turn
// order. The scan is bounded: if it comes back to the starting index
// without finding an active player it stops there, and the auto-finish
// check picks the game up.
func (g *Game) advanceTurn() {
	if len(g.TurnOrder) == 0 {
		return
	}
	start := g.CurrentTurnIndex
	for {
		g.CurrentTurnIndex = (g.CurrentTurnIndex + 1) % len(g.TurnOrder)
		if g.CurrentTurnIndex == start {
			return
		}
		if p, ok := g.Players[g.TurnOrder[g.CurrentTurnIndex]]; ok && p.State == StateActive {
			return
		}
	}
}

// drawRandom removes a uniformly random card from the deck. The RNG is the
// process-global math/rand source; one uniform index sample per draw.
func (g *Game) drawRandom() Card {
	i := rand.Intn(len(g.AvailableCards))
	card := g.AvailableCards[i]
	g.AvailableCards = append(g.AvailableCards[:i], g.AvailableCards[i+1:]...)
	return card
}

// DrawCard draws a random card for the player, recomputes their hand,
// advances the turn, and auto-finishes the game (dealer play included) when
// every player is standing or busted.
func (g *Game) DrawCard(email string) (Card, error) {
	if g.Finished {
		return Card{}, ErrGameFinished()
	}
	if len(g.AvailableCards) == 0 {
		return Card{}, ErrDeckEmpty()
	}
	if !g.EnrollmentClosed {
		return Card{}, ErrEnrollmentNotClosed()
	}
	if !g.CanPlayerAct(email) {
		return Card{}, ErrNotYourTurn()
	}
	p, ok := g.Players[email]
	if !ok {
		return Card{}, ErrPlayerNotInGame()
	}
	if p.Busted {
		return Card{}, ErrPlayerAlreadyBusted()
	}
	if p.State != StateActive {
		return Card{}, ErrPlayerNotActive()
	}

	card := g.drawRandom()
	p.AddCard(card)
	g.advanceTurn()

	if g.allPlayersDone() {
		if err := g.playDealer(); err != nil {
			return Card{}, err
		}
		g.Finished = true
	}
	return card, nil
}

// Stand marks the player as standing and advances the turn, auto-finishing
// when every player is done.
func (g *Game) Stand(email string) error {
	if g.Finished {
		return ErrGameFinished()
	}
	if !g.EnrollmentClosed {
		return ErrEnrollmentNotClosed()
	}
	if !g.CanPlayerAct(email) {
		return ErrNotYourTurn()
	}
	p, ok := g.Players[email]
	if !ok {
		return ErrPlayerNotInGame()
	}
	if p.State != StateActive {
		return ErrPlayerNotActive()
	}

	p.State = StateStanding
	g.advanceTurn()

	if g.allPlayersDone() {
		if err := g.playDealer(); err != nil {
			return err
		}
		g.Finished = true
	}
	return nil
}

// allPlayersDone reports whether every player is standing or busted.
func (g *Game) allPlayersDone() bool {
	if len(g.Players) == 0 {
		return false
	}
	for _, p := range g.Players {
		if p.State == StateActive {
			return false
		}
	}
	return true
}

// playDealer runs the dealer's turn: draw while under 17, then stand unless
// busted. Dealer aces always count as 1 and are never toggled.
func (g *Game) playDealer() error {
	if g.Finished {
		return ErrGameFinished()
	}
	for g.Dealer.Points < dealerStandThreshold && !g.Dealer.Busted {
		if len(g.AvailableCards) == 0 {
			return ErrDeckEmpty()
		}
		g.Dealer.AddCard(g.drawRandom())
	}
	if !g.Dealer.Busted {
		g.Dealer.State = StateStanding
	}
	return nil
}

// SetAceValue toggles an Ace between 1 and 11 and recomputes the player's
// points. Legal any time the game is unfinished; the player need not be on
// turn or still active. Toggling never un-busts a busted player.
func (g *Game) SetAceValue(email string, cardID uuid.UUID, asEleven bool) error {
	if g.Finished {
		return ErrGameFinished()
	}
	p, ok := g.Players[email]
	if !ok {
		return ErrPlayerNotInGame()
	}

	var card *Card
	for i := range p.CardsHistory {
		if p.CardsHistory[i].ID == cardID {
			card = &p.CardsHistory[i]
			break
		}
	}
	if card == nil {
		return ErrCardNotFound()
	}
	if !card.IsAce() {
		return ErrNotAnAce()
	}

	p.AceValues[cardID] = asEleven
	p.Recalculate()
	return nil
}

// Finish marks the game finished. Idempotent; results stay computable.
func (g *Game) Finish() {
	g.Finished = true
}
