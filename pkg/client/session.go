package client

import "sync"

// Session holds the bearer token and the signed-in user. It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

// NewSession restores a session from a previously issued token.
func NewSession(token string, user *User) *Session {
	return &Session{token: token, user: user}
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) set(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Session) setUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Clear drops the token and user.
func (s *Session) Clear() {
	s.set("", nil)
}
