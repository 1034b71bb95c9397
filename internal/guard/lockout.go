package guard

import (
	"sync"
	"time"
)

const (
	// MaxAttempts failed logins within LockoutWindow locks the account.
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout tracks failed login attempts per email in memory. A successful
// login resets the account's counter.
type Lockout struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

// NewLockout creates an empty lockout tracker.
func NewLockout() *Lockout {
	return &Lockout{failures: make(map[string][]time.Time)}
}

// RecordFailure notes a failed login for the email.
func (l *Lockout) RecordFailure(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[email] = append(l.prune(email), time.Now())
}

// Reset clears the email's failure history after a successful login.
func (l *Lockout) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, email)
}

// Locked reports whether the email has reached MaxAttempts failed logins
// within the lockout window.
func (l *Lockout) Locked(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	valid := l.prune(email)
	l.failures[email] = valid
	return len(valid) >= MaxAttempts
}

// prune drops failures older than the window. Caller holds the lock.
func (l *Lockout) prune(email string) []time.Time {
	cutoff := time.Now().Add(-LockoutWindow)
	entries := l.failures[email]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}
