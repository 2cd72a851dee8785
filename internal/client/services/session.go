// Package services contains the application services of the blogdesk
// client: the session manager, the post repository and the post editor.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
	"github.com/dmitrijs2005/blogdesk/internal/client/tokenstore"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
)

// SessionStore persists the session between runs.
type SessionStore interface {
	Save(ctx context.Context, token string, user *models.User) error
	Load(ctx context.Context) (string, *models.User, error)
	Clear(ctx context.Context) error
}

// AuthClient is the remote side of authentication.
type AuthClient interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Verify(ctx context.Context) (*models.User, error)
}

// SessionListener receives every state transition.
type SessionListener func(state models.SessionState, session models.Session)

// SessionManager is the single owner of authentication state. It is safe for
// concurrent use; listeners run synchronously, outside the manager's locks.
type SessionManager struct {
	store  SessionStore
	auth   AuthClient
	logger logging.Logger

	// writeMu orders every store write together with the state change it
	// belongs to. It is taken before mu.
	writeMu sync.Mutex

	mu      sync.RWMutex
	state   models.SessionState
	session models.Session

	subsMu    sync.Mutex
	subs      map[int]SessionListener
	nextSubID int
	closed    bool
}

// NewSessionManager hydrates the session from store. A stored token makes
// the session tentatively authenticated (StateVerifying) until Verify runs;
// a stored user that cannot be decoded is treated as a logout.
func NewSessionManager(ctx context.Context, store SessionStore, auth AuthClient, logger logging.Logger) *SessionManager {
	if logger == nil {
		logger = logging.Nop()
	}
	m := &SessionManager{
		store:  store,
		auth:   auth,
		logger: logger,
		state:  models.StateAnonymous,
		subs:   make(map[int]SessionListener),
	}

	token, user, err := store.Load(ctx)
	switch {
	case err == nil:
		m.state = models.StateVerifying
		m.session = models.NewSession(token, user)
	case errors.Is(err, tokenstore.ErrEmpty):
	case errors.Is(err, tokenstore.ErrCorrupt):
		logger.Warn(ctx, "stored session is corrupt, logging out", "err", err)
		if cerr := store.Clear(ctx); cerr != nil {
			logger.Error(ctx, "clear corrupt session", "err", cerr)
		}
	default:
		logger.Error(ctx, "load stored session", "err", err)
	}

	return m
}

func (m *SessionManager) State() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot returns a copy of the current session.
func (m *SessionManager) Snapshot() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.NewSession(m.session.Token, m.session.User)
}

// IsAuthenticated is true while a token is held, including while it is being
// verified.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state != models.StateAnonymous
}

// Login exchanges credentials for a token, persists it and becomes
// authenticated. On failure the state is left unchanged and the returned
// error's text is fit for display.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	resp, err := m.auth.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.logger.Info(ctx, "login failed", "email", email, "err", err)
		if isTransport(err) {
			return err
		}
		return &displayError{msg: ErrInvalidCredentials.Error(), kind: ErrInvalidCredentials, cause: err}
	}

	userEmail := email
	if userEmail == "" {
		userEmail = resp.Email
	}
	user := &models.User{
		ID:       resp.UserID,
		Email:    userEmail,
		UserName: resp.UserName,
		Role:     models.RoleUser,
	}

	m.writeMu.Lock()
	if err := m.store.Save(ctx, resp.Token, user); err != nil {
		m.writeMu.Unlock()
		m.logger.Error(ctx, "persist session", "err", err)
		return fmt.Errorf("save session: %w", err)
	}
	m.commit(models.StateAuthenticated, models.NewSession(resp.Token, user))

	m.logger.Info(ctx, "logged in", "user_id", user.ID)
	return nil
}

// Register creates the account and, only when that succeeds, logs in with the
// same email and password.
func (m *SessionManager) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := m.auth.Register(ctx, req); err != nil {
		m.logger.Info(ctx, "registration failed", "email", req.Email, "err", err)
		if isTransport(err) {
			return err
		}
		msg := serverMessage(err)
		if msg == "" {
			msg = ErrRegistrationFailed.Error()
		}
		return &displayError{msg: msg, kind: ErrRegistrationFailed, cause: err}
	}

	return m.Login(ctx, req.Email, req.Password)
}

// Verify confirms the held token with the server. Any failure other than the
// caller cancelling ctx clears the stored session and returns to anonymous.
// Without a token it returns ErrNoSession and stays anonymous.
func (m *SessionManager) Verify(ctx context.Context) error {
	m.mu.RLock()
	token, cached := m.session.Token, m.session.User
	m.mu.RUnlock()

	if token == "" {
		m.transition(models.StateAnonymous, models.AnonymousSession())
		return ErrNoSession
	}

	m.transitionIfToken(token, models.StateVerifying, models.NewSession(token, cached))

	user, err := m.auth.Verify(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		m.logger.Warn(ctx, "session verification failed", "err", err)

		m.writeMu.Lock()
		if !m.holds(token) {
			m.writeMu.Unlock()
			return fmt.Errorf("verify session: %w", err)
		}
		if cerr := m.store.Clear(ctx); cerr != nil {
			m.logger.Error(ctx, "clear session", "err", cerr)
		}
		m.commit(models.StateAnonymous, models.AnonymousSession())
		return fmt.Errorf("verify session: %w", err)
	}

	m.writeMu.Lock()
	if !m.holds(token) {
		m.writeMu.Unlock()
		return nil
	}
	if user == nil {
		user = cached
	} else if err := m.store.Save(ctx, token, user); err != nil {
		m.logger.Warn(ctx, "refresh stored user", "err", err)
	}
	m.commit(models.StateAuthenticated, models.NewSession(token, user))
	return nil
}

// Logout forgets the session locally. It is idempotent; a storage failure is
// returned but the in-memory session is reset regardless.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.writeMu.Lock()
	err := m.store.Clear(ctx)
	m.commit(models.StateAnonymous, models.AnonymousSession())
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Subscribe registers fn for every subsequent transition. The returned
// function unsubscribes and may be called more than once.
func (m *SessionManager) Subscribe(fn SessionListener) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	if m.closed || fn == nil {
		return func() {}
	}

	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.subs, id)
	}
}

// Close drops all listeners. The manager keeps working without notifying.
func (m *SessionManager) Close() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.closed = true
	clear(m.subs)
}

func (m *SessionManager) transition(state models.SessionState, session models.Session) {
	m.writeMu.Lock()
	m.commit(state, session)
}

// transitionIfToken applies the transition only if the session still holds
// token, so a slow Verify cannot undo a concurrent Logout or Login.
func (m *SessionManager) transitionIfToken(token string, state models.SessionState, session models.Session) {
	m.writeMu.Lock()
	if !m.holds(token) {
		m.writeMu.Unlock()
		return
	}
	m.commit(state, session)
}

// holds reports whether the session still carries token. Callers hold
// writeMu, so the answer stays true until they release it.
func (m *SessionManager) holds(token string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token == token
}

// commit applies the transition, releases writeMu (which the caller holds)
// and then notifies listeners outside every lock.
func (m *SessionManager) commit(state models.SessionState, session models.Session) {
	m.mu.Lock()
	changed := m.apply(state, session)
	m.mu.Unlock()
	m.writeMu.Unlock()

	if changed {
		m.publish(state, session)
	}
}

func (m *SessionManager) apply(state models.SessionState, session models.Session) bool {
	changed := m.state != state || m.session.Token != session.Token || !sameUser(m.session.User, session.User)
	m.state = state
	m.session = session
	return changed
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m *SessionManager) publish(state models.SessionState, session models.Session) {
	m.subsMu.Lock()
	listeners := make([]SessionListener, 0, len(m.subs))
	for _, fn := range m.subs {
		listeners = append(listeners, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range listeners {
		fn(state, models.NewSession(session.Token, session.User))
	}
}
