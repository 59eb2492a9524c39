package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"userdir-backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("invalid session")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionStore holds active bearer sessions keyed by token. Expiry is
// recorded on every session but only enforced when enforceExpiry is set;
// by default the deadline is informational and Resolve never checks it.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session

	ttl           time.Duration
	enforceExpiry bool
	now           func() time.Time
}

// NewSessionStore creates an empty session store. ttl is applied to every
// issued session; enforceExpiry controls whether Resolve rejects sessions
// past their deadline.
func NewSessionStore(ttl time.Duration, enforceExpiry bool) *SessionStore {
	return &SessionStore{
		sessions:      make(map[string]*models.Session),
		ttl:           ttl,
		enforceExpiry: enforceExpiry,
		now:           time.Now,
	}
}

// Issue creates a session for the given handle. The token is the first 32
// hex characters of SHA-256 over handle + nanosecond timestamp + caller
// address, which keeps concurrent issuances distinct.
func (s *SessionStore) Issue(username, ipAddress string) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	issued := s.now()
	sum := sha256.Sum256([]byte(username + issued.Format(time.RFC3339Nano) + ipAddress))
	token := hex.EncodeToString(sum[:])[:32]

	session := &models.Session{
		Token:     token,
		Username:  username,
		CreatedAt: issued,
		ExpiresAt: issued.Add(s.ttl),
		IPAddress: ipAddress,
	}
	s.sessions[token] = session
	return session
}

// Resolve returns the handle that owns the token
func (s *SessionStore) Resolve(token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return "", ErrSessionNotFound
	}
	if s.enforceExpiry && s.now().After(session.ExpiresAt) {
		return "", ErrSessionExpired
	}
	return session.Username, nil
}

// Revoke removes the session if present; revoking an unknown token is not
// an error.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Count returns the number of stored sessions
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Tokens returns up to limit session tokens
func (s *SessionStore) Tokens(limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, limit)
	for token := range s.sessions {
		if len(out) >= limit {
			break
		}
		out = append(out, token)
	}
	return out
}
