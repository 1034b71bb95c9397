package service

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/attaboy/blackjack/internal/auth"
	"github.com/attaboy/blackjack/internal/domain"
	"github.com/attaboy/blackjack/internal/guard"
	"github.com/google/uuid"
)

// IdentityService owns the in-memory user store: registration, login,
// password changes and per-user game statistics. Password hashing and
// verification run outside the store lock since Argon2id is deliberately
// expensive.
type IdentityService struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User

	lockout *guard.Lockout
	logger  *slog.Logger
}

// NewIdentityService creates an empty identity store.
func NewIdentityService(logger *slog.Logger) *IdentityService {
	return &IdentityService{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
		lockout: guard.NewLockout(),
		logger:  logger,
	}
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the email and password policy, hashes the password and
// creates an active account. The dealer's reserved email is rejected so no
// account can collide with the synthetic dealer.
func (s *IdentityService) Register(input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrInvalidEmail(err.Error())
	}
	if strings.EqualFold(email, domain.DealerEmail) {
		return nil, domain.ErrInvalidEmail("email is reserved")
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		appErr := domain.ErrWeakPassword(err.Error())
		var policyErr *domain.PasswordPolicyError
		if pe, ok := err.(*domain.PasswordPolicyError); ok {
			policyErr = pe
		}
		if policyErr != nil {
			appErr = appErr.WithDetails(map[string]string{
				"min_length": strconv.Itoa(policyErr.MinLength),
				"length":     strconv.Itoa(policyErr.ActualLength),
				"missing":    strings.Join(policyErr.Missing, ", "),
			})
		}
		return nil, appErr
	}

	s.mu.RLock()
	_, exists := s.byEmail[email]
	s.mu.RUnlock()
	if exists {
		return nil, domain.ErrUserExists()
	}

	// Hash outside the lock; Argon2id is slow on purpose.
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, domain.ErrPasswordHash(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock: a concurrent registration may have won
	// the race while we were hashing.
	if _, exists := s.byEmail[email]; exists {
		return nil, domain.ErrUserExists()
	}

	user := domain.NewUser(email, hash)
	s.byID[user.ID] = user
	s.byEmail[email] = user

	s.logger.Info("user registered", "user_id", user.ID, "email", email)
	return user.Clone(), nil
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user. Unknown email and wrong password produce the
// same INVALID_CREDENTIALS error, and the unknown-email path burns a dummy
// verification so the two take the same time. Inactive accounts are refused
// before the hash check. Five failures within the lockout window lock the
// account.
func (s *IdentityService) Login(input LoginInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)

	if s.lockout.Locked(email) {
		return nil, domain.ErrAccountLocked()
	}

	s.mu.RLock()
	user, ok := s.byEmail[email]
	var hash string
	var active bool
	if ok {
		hash = user.PasswordHash
		active = user.IsActive
	}
	s.mu.RUnlock()

	if !ok {
		// Burn a verification so unknown emails take as long as wrong
		// passwords.
		auth.VerifyDummy(input.Password)
		s.lockout.RecordFailure(email)
		return nil, domain.ErrInvalidCredentials()
	}
	if !active {
		return nil, domain.ErrAccountInactive()
	}

	// Verify outside the lock.
	match, err := auth.VerifyPassword(input.Password, hash)
	if err != nil {
		return nil, domain.ErrInternal("verify password", err)
	}
	if !match {
		s.lockout.RecordFailure(email)
		s.logger.Warn("failed login attempt", "email", email)
		return nil, domain.ErrInvalidCredentials()
	}

	s.lockout.Reset(email)

	s.mu.Lock()
	now := time.Now().UTC()
	user.LastLogin = &now
	snapshot := user.Clone()
	s.mu.Unlock()

	s.logger.Info("user logged in", "user_id", snapshot.ID, "email", email)
	return snapshot, nil
}

// Get returns a snapshot of the user by ID.
func (s *IdentityService) Get(userID uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound()
	}
	return user.Clone(), nil
}

// GetByEmail returns a snapshot of the user by email.
func (s *IdentityService) GetByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byEmail[strings.TrimSpace(email)]
	if !ok {
		return nil, domain.ErrUserNotFound()
	}
	return user.Clone(), nil
}

// ChangePassword verifies the current password, validates the new one
// against the policy and swaps the stored hash.
func (s *IdentityService) ChangePassword(userID uuid.UUID, current, next string) error {
	s.mu.RLock()
	user, ok := s.byID[userID]
	var hash string
	if ok {
		hash = user.PasswordHash
	}
	s.mu.RUnlock()
	if !ok {
		return domain.ErrUserNotFound()
	}

	match, err := auth.VerifyPassword(current, hash)
	if err != nil {
		return domain.ErrInternal("verify password", err)
	}
	if !match {
		return domain.ErrInvalidCredentials()
	}
	if err := domain.ValidatePassword(next); err != nil {
		return domain.ErrWeakPassword(err.Error())
	}

	newHash, err := auth.HashPassword(next)
	if err != nil {
		return domain.ErrPasswordHash(err)
	}

	s.mu.Lock()
	user.PasswordHash = newHash
	s.mu.Unlock()

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// Activate re-enables a deactivated account.
func (s *IdentityService) Activate(userID uuid.UUID) error {
	return s.setActive(userID, true)
}

// Deactivate suspends an account. A deactivated user cannot log in; already
// issued tokens still verify but the login path refuses new ones.
func (s *IdentityService) Deactivate(userID uuid.UUID) error {
	return s.setActive(userID, false)
}

func (s *IdentityService) setActive(userID uuid.UUID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	user.IsActive = active
	return nil
}

// RecordGameOutcome folds one finished game into the user's lifetime stats.
// Unknown emails (including the dealer) are ignored.
func (s *IdentityService) RecordGameOutcome(email string, outcome domain.PlayerOutcome, points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return
	}
	if user.Stats == nil {
		user.Stats = &domain.UserStats{}
	}
	user.Stats.RecordGame(outcome, points)
}
