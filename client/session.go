package client

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/crypt"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// Session states.
type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
	StateRefreshing     State = "REFRESHING"
)

// refreshLead is how long before access-token expiry the background
// refresh fires.
const refreshLead = time.Minute

// SessionOptions configures persistence.
type SessionOptions struct {
	// PersistPath, when set with Remember, is the file the encrypted
	// token pair is written to so a session survives restarts.
	PersistPath string
	Remember    bool
}

// Session wraps a Client with an explicit lifecycle: login moves it to
// AUTHENTICATED and starts a background task that renews the access
// token shortly before it expires; logout cancels everything.
type Session struct {
	client *Client
	opts   SessionOptions

	mu     sync.RWMutex
	state  State
	user   *User
	cancel context.CancelFunc
}

// NewSession creates a session in the ANONYMOUS state.
func NewSession(c *Client, opts SessionOptions) *Session {
	s := &Session{client: c, opts: opts, state: StateAnonymous}
	c.OnTokens = s.persistTokens
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in account, nil when anonymous.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Login authenticates and starts the auto-refresh task.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	s.setState(StateAuthenticating)

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.setState(StateAnonymous)
		return nil, err
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()

	s.startRefreshTask()
	return user, nil
}

// Logout stops the refresh task, tells the server, clears tokens, and
// removes any persisted session file.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if err := s.client.Logout(ctx); err != nil {
		logger.Debug("session: logout request failed", "error", err)
	}
	if s.opts.PersistPath != "" {
		os.Remove(s.opts.PersistPath) //nolint:errcheck
	}
}

// Restore loads a persisted token pair from disk and resumes the
// session. Returns false when nothing usable was stored. Without
// Remember, a leftover session file from an earlier remembered run is
// purged instead of restored.
func (s *Session) Restore(ctx context.Context) bool {
	if s.opts.PersistPath == "" {
		return false
	}
	if !s.opts.Remember {
		os.Remove(s.opts.PersistPath) //nolint:errcheck
		return false
	}

	raw, err := os.ReadFile(s.opts.PersistPath)
	if err != nil {
		return false
	}

	var stored struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := crypt.DecryptJSON(string(raw), &stored); err != nil {
		logger.Warn("session: discarding unreadable session file", "error", err)
		os.Remove(s.opts.PersistPath) //nolint:errcheck
		return false
	}
	if stored.Refresh == "" {
		return false
	}

	s.client.SetTokens(stored.Access, stored.Refresh)
	if err := s.client.RefreshAccess(ctx); err != nil {
		s.client.ClearTokens()
		return false
	}

	s.setState(StateAuthenticated)
	s.startRefreshTask()
	return true
}

// startRefreshTask replaces any running refresh loop with a fresh one.
func (s *Session) startRefreshTask() {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	go s.refreshLoop(ctx)
}

func (s *Session) refreshLoop(ctx context.Context) {
	for {
		expiry, ok := s.client.AccessExpiry()
		wait := time.Minute
		if ok {
			wait = time.Until(expiry) - refreshLead
			if wait < time.Second {
				wait = time.Second
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		s.setState(StateRefreshing)
		if err := s.client.RefreshAccess(ctx); err != nil {
			logger.Warn("session: refresh failed, signing out", "error", err)
			s.mu.Lock()
			s.state = StateAnonymous
			s.user = nil
			s.cancel = nil
			s.mu.Unlock()
			s.client.ClearTokens()
			return
		}
		s.setState(StateAuthenticated)
	}
}

// persistTokens writes the encrypted pair when remembering is on.
func (s *Session) persistTokens(access, refresh string) {
	if !s.opts.Remember || s.opts.PersistPath == "" {
		return
	}
	if refresh == "" {
		os.Remove(s.opts.PersistPath) //nolint:errcheck
		return
	}

	enc, err := crypt.EncryptJSON(map[string]string{"access": access, "refresh": refresh})
	if err != nil {
		logger.Warn("session: could not encrypt session", "error", err)
		return
	}
	if err := os.WriteFile(s.opts.PersistPath, []byte(enc), 0o600); err != nil {
		logger.Warn("session: could not persist session", "error", err)
	}
}
