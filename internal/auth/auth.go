// Package auth implements the single-admin access guard: a credential
// check against the one configured username/password pair, and an
// in-memory session store keyed by random tokens.
//
// There is no account table and no password hashing — exactly one
// administrator exists and its credentials come from configuration.
// Sessions live in process memory because they are ephemeral by
// definition: a restart logs the admin out, which is acceptable for a
// single-operator panel.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrBadCredentials is returned by Login when the submitted pair does
// not match the configured one. It carries no detail on purpose.
var ErrBadCredentials = errors.New("invalid username or password")

// Session proves that a request is authenticated as the administrator.
// It carries nothing beyond its token and expiry — there is only one
// possible identity.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Authenticator validates credentials and manages sessions.
type Authenticator struct {
	username string
	password string
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New returns an Authenticator accepting exactly the given credential
// pair. Sessions expire ttl after login.
func New(username, password string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		username: username,
		password: password,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Login checks the submitted credentials and, on success, creates and
// stores a new session. Comparison is constant-time so response timing
// does not leak how much of a guess matched.
func (a *Authenticator) Login(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return nil, ErrBadCredentials
	}

	sess := &Session{
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(a.ttl),
	}

	a.mu.Lock()
	a.sessions[sess.Token] = sess
	a.mu.Unlock()

	return sess, nil
}

// Get returns the session for a token, or nil if the token is unknown
// or the session has expired. Expired sessions are dropped on access
// rather than by a background sweeper; with a single admin the map
// never grows past a handful of entries.
func (a *Authenticator) Get(token string) *Session {
	a.mu.RLock()
	sess, ok := a.sessions[token]
	a.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(sess.ExpiresAt) {
		a.Destroy(token)
		return nil
	}

	return sess
}

// Destroy removes a session unconditionally. Destroying an unknown
// token is a no-op.
func (a *Authenticator) Destroy(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}
