package registration

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound means no pending registration exists for the session.
	ErrNotFound = errors.New("no pending registration")
	// ErrExpired means the pending registration outlived its TTL. The entry
	// is cleared; the caller must restart from Register.
	ErrExpired = errors.New("pending registration expired")
	// ErrCodeMismatch means the submitted code was wrong. The entry is
	// retained so the caller may retry.
	ErrCodeMismatch = errors.New("incorrect code")
)

// Pending is one in-flight registration attempt, held until the one-time code
// is confirmed or the attempt expires.
type Pending struct {
	Username string
	Email    string
	Password string
	Code     string
	Expiry   time.Time
}

// PendingStore holds at most one pending registration per session. Entries
// are transient by design: they live in memory only and expiry is evaluated
// lazily at Verify time.
type PendingStore struct {
	mu      sync.Mutex
	entries map[string]Pending
	now     func() time.Time
}

func NewPendingStore() *PendingStore {
	return &PendingStore{
		entries: make(map[string]Pending),
		now:     time.Now,
	}
}

// Begin records a pending registration for the session, overwriting any
// prior attempt for that session.
func (s *PendingStore) Begin(session, username, email, password, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session] = Pending{
		Username: username,
		Email:    email,
		Password: password,
		Code:     code,
		Expiry:   s.now().Add(ttl),
	}
}

// Verify checks the submitted code against the session's pending
// registration. A match returns the pending data without clearing it; the
// caller clears via Clear once the account insert has succeeded.
func (s *PendingStore) Verify(session, code string) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[session]
	if !ok {
		return Pending{}, ErrNotFound
	}
	if s.now().After(p.Expiry) {
		delete(s.entries, session)
		return Pending{}, ErrExpired
	}
	if code != p.Code {
		return Pending{}, ErrCodeMismatch
	}
	return p, nil
}

// Clear drops the session's pending registration, if any.
func (s *PendingStore) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, session)
}

// PurgeExpired removes expired entries. Purely memory hygiene: Verify treats
// an expired entry as invalid whether or not a sweep has run.
func (s *PendingStore) PurgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for session, p := range s.entries {
		if now.After(p.Expiry) {
			delete(s.entries, session)
		}
	}
}
