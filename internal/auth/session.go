// Package auth manages the session state behind API requests: the
// .ROBLOSECURITY cookie and the rolling X-CSRF token.
package auth

import "sync"

// Session provides the credentials attached to outgoing requests.
// Implementations must be safe for concurrent use: the HTTP core
// reads the cookie and token on every request and rotates the token
// when the platform issues a new one.
type Session interface {
	// Cookie returns the .ROBLOSECURITY cookie, or "" when
	// anonymous.
	Cookie() string

	// SetCookie replaces the cookie, e.g. after a credential login.
	SetCookie(cookie string)

	// CSRFToken returns the current X-CSRF token, or "" when none has
	// been issued yet.
	CSRFToken() string

	// SetCSRFToken stores a token taken from a challenge response.
	SetCSRFToken(token string)

	// Authenticated reports whether a cookie is present.
	Authenticated() bool
}

// MemorySession is an in-memory Session.
type MemorySession struct {
	mu     sync.RWMutex
	cookie string
	token  string
}

// NewMemorySession creates a session with the given cookie. An empty
// cookie creates an anonymous session.
func NewMemorySession(cookie string) *MemorySession {
	return &MemorySession{cookie: cookie}
}

// Cookie implements Session.
func (s *MemorySession) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cookie
}

// SetCookie implements Session.
func (s *MemorySession) SetCookie(cookie string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookie = cookie
}

// CSRFToken implements Session.
func (s *MemorySession) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// SetCSRFToken implements Session.
func (s *MemorySession) SetCSRFToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Authenticated implements Session.
func (s *MemorySession) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cookie != ""
}

// Clear drops both the cookie and the token, e.g. after logout.
func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookie = ""
	s.token = ""
}
