package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record. Passwords are only ever stored as Argon2id
// hashes and the hash never serializes.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Stats        *UserStats `json:"stats,omitempty"`
}

// NewUser creates an active user. The email must already be validated and
// the password already hashed.
func NewUser(email, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		Stats:        &UserStats{},
	}
}

// Clone returns a snapshot copy safe to hand outside the store's lock. The
// password hash is stripped; callers never need it.
func (u *User) Clone() *User {
	c := *u
	c.PasswordHash = ""
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	if u.Stats != nil {
		s := *u.Stats
		c.Stats = &s
	}
	return &c
}

// UserStats aggregates a user's lifetime game outcomes.
type UserStats struct {
	GamesPlayed  int `json:"games_played"`
	GamesWon     int `json:"games_won"`
	GamesLost    int `json:"games_lost"`
	GamesTied    int `json:"games_tied"`
	TotalPoints  int `json:"total_points"`
	HighestScore int `json:"highest_score"`
	TimesBusted  int `json:"times_busted"`
}

// RecordGame folds one finished game into the aggregate. A bust counts as
// a loss.
func (s *UserStats) RecordGame(outcome PlayerOutcome, points int) {
	s.GamesPlayed++
	s.TotalPoints += points
	if points > s.HighestScore {
		s.HighestScore = points
	}
	switch outcome {
	case OutcomeWon:
		s.GamesWon++
	case OutcomeLost:
		s.GamesLost++
	case OutcomePush:
		s.GamesTied++
	case OutcomeBusted:
		s.GamesLost++
		s.TimesBusted++
	}
}

// WinRate is the percentage of games won.
func (s *UserStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed) * 100
}

// AveragePoints is the mean final point total per game.
func (s *UserStats) AveragePoints() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPoints) / float64(s.GamesPlayed)
}
