package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// authAPI is the slice of the backend the session manager talks to.
type authAPI interface {
	CreateToken(ctx context.Context, username, password string) (string, error)
	DeleteToken(ctx context.Context) error
}

// Credentials are what the login form collects.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session owns the authentication token and the derived logged-in flag. The
// two always change together: a token is present exactly when the session is
// logged in. The token is persisted to the durable settings slot so a
// restarted client resumes its session.
type Session struct {
	mu       sync.RWMutex
	token    string
	loggedIn bool

	api      authAPI
	settings *SettingsStore
	log      *slog.Logger

	// onExpire is invoked after a forced logout with the path that was being
	// accessed, so the guard can route back there after re-login.
	onExpire func(path string)
	returnTo string
}

// NewSession restores session state from the durable slot.
func NewSession(settings *SettingsStore, log *slog.Logger) (*Session, error) {
	token, err := settings.Get(keyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	s := &Session{
		token:    token,
		loggedIn: token != "",
		settings: settings,
		log:      log,
	}

	if s.loggedIn {
		log.Debug("session restored from storage")
	}

	return s, nil
}

// BindAPI wires the backend client in. Separate from the constructor because
// the HTTP client itself needs the session for its bearer header.
func (s *Session) BindAPI(api authAPI) {
	s.api = api
}

// OnExpire registers the forced-logout hook.
func (s *Session) OnExpire(fn func(path string)) {
	s.onExpire = fn
}

// Login exchanges credentials for a token. A refusal surfaces as
// ErrAuthRejected with no state change.
func (s *Session) Login(ctx context.Context, creds Credentials) (string, error) {
	token, err := s.api.CreateToken(ctx, creds.Username, creds.Password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.token = token
	s.loggedIn = true
	s.returnTo = ""
	s.mu.Unlock()

	if err := s.settings.Set(keyToken, token); err != nil {
		s.log.Warn("failed to persist session token", "error", err)
	}

	s.log.Info("logged in", "user", creds.Username)
	return token, nil
}

// Logout terminates the session on the backend and clears local state. Local
// state is cleared after the request resolves regardless of its outcome; the
// request error is still returned so the caller can report it.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.DeleteToken(ctx)

	s.clear()
	s.log.Info("logged out")

	return err
}

// Expire force-logs-out without a backend round trip. path is carried as the
// return target for the post-login redirect.
func (s *Session) Expire(path string) {
	s.mu.Lock()
	s.returnTo = path
	s.mu.Unlock()

	s.clear()
	s.log.Warn("session expired", "path", path)

	if s.onExpire != nil {
		s.onExpire(path)
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	s.token = ""
	s.loggedIn = false
	s.mu.Unlock()

	if err := s.settings.Delete(keyToken); err != nil {
		s.log.Warn("failed to clear session token", "error", err)
	}
}

// IsLoggedIn reports whether a token is present.
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Token returns the current bearer token, "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ReturnTarget is the path a forced logout interrupted, "" when none.
func (s *Session) ReturnTarget() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.returnTo
}

// TokenExpiry decodes the exp claim of the bearer token without verifying
// its signature; verification is the backend's job. Returns the zero time
// when the token is absent or not a JWT.
func (s *Session) TokenExpiry() time.Time {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return time.Time{}
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
