package handler

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an admin token stays valid.
const DefaultSessionTTL = 12 * time.Hour

// ErrInvalidPassword is returned by Login for a wrong or unconfigured password.
var ErrInvalidPassword = errors.New("invalid password")

// SessionStore issues and checks admin tokens. Tokens live in memory only, so a restart logs
// every admin out.
type SessionStore struct {
	password string
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

// NewSessionStore creates a store that accepts password. An empty password disables login.
func NewSessionStore(password string, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionStore{
		password: password,
		ttl:      ttl,
		now:      time.Now,
		tokens:   make(map[string]time.Time),
	}
}

// Login checks password and returns a new token with its expiry.
func (s *SessionStore) Login(password string) (string, time.Time, error) {
	if s.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", time.Time{}, ErrInvalidPassword
	}

	token := uuid.NewString()
	expires := s.now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = expires
	s.evictExpired()

	return token, expires, nil
}

// Valid reports whether token was issued and has not expired.
func (s *SessionStore) Valid(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(expires) {
		delete(s.tokens, token)
		return false
	}

	return true
}

// Logout revokes token.
func (s *SessionStore) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, token)
}

// evictExpired drops expired tokens. Callers hold mu.
func (s *SessionStore) evictExpired() {
	now := s.now()
	for token, expires := range s.tokens {
		if !now.Before(expires) {
			delete(s.tokens, token)
		}
	}
}
