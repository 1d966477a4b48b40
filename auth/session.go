package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"agroverse/globals"
	"agroverse/logx"
)

// Claims are the fields the backend puts in its access tokens.
type Claims struct {
	Username string   `json:"username"`
	UserID   string   `json:"userId"`
	Role     []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a token without checking its signature. Tokens that
// are not JWTs yield an error and are treated as opaque.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Session is the single source of truth for "who is logged in". The token
// lives in the Store under globals.TokenKey.
type Session struct {
	mu        sync.Mutex
	store     Store
	fallback  string
	listeners []func(reason string)
	now       func() time.Time
}

// NewSession wraps store. fallbackUserID is used as requester identity
// when the token carries none.
func NewSession(store Store, fallbackUserID string) *Session {
	return &Session{store: store, fallback: fallbackUserID, now: time.Now}
}

// Begin persists a freshly issued token.
func (s *Session) Begin(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return s.store.Set(globals.TokenKey, token)
}

// Token returns the stored token, or "" when logged out. An expired JWT
// closes the session here, before any request is made with it.
func (s *Session) Token() string {
	token, err := s.store.Get(globals.TokenKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logx.Warn().Err(err).Msg("session store read failed")
		}
		return ""
	}
	if claims, err := ParseClaims(token); err == nil && claims.ExpiresAt != nil {
		if !claims.ExpiresAt.After(s.now()) {
			s.Invalidate("token expired")
			return ""
		}
	}
	return token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// UserID is the requester identity for listings and requests.
func (s *Session) UserID() string {
	if token := s.Token(); token != "" {
		if claims, err := ParseClaims(token); err == nil && claims.UserID != "" {
			return claims.UserID
		}
	}
	return s.fallback
}

// Username is the display name from the token, if any.
func (s *Session) Username() string {
	token := s.Token()
	if token == "" {
		return ""
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return ""
	}
	return claims.Username
}

// OnInvalidate registers fn to run whenever the session is forcibly closed.
func (s *Session) OnInvalidate(fn func(reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Invalidate clears the token and notifies listeners.
func (s *Session) Invalidate(reason string) {
	if err := s.store.Remove(globals.TokenKey); err != nil {
		logx.Error().Err(err).Msg("session store remove failed")
	}
	s.mu.Lock()
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	logx.Info().Str("reason", reason).Msg("session invalidated")
	for _, fn := range listeners {
		fn(reason)
	}
}

// Logout is a user-initiated close. Listeners are not notified.
func (s *Session) Logout() error {
	return s.store.Remove(globals.TokenKey)
}
