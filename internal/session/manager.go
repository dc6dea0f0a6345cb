package session

import (
	"context"
	"sync"

	"orchid-storefront/internal/api"
	"orchid-storefront/internal/domain"
	"orchid-storefront/internal/events"
	"orchid-storefront/internal/sessionstore"

	"go.uber.org/zap"
)

// AuthAPI is the slice of the API client the manager needs for phase 1 of
// login and registration.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (api.AuthResponse, error)
}

// AccountAPI is the slice of the API client the manager needs for phase 2,
// the authenticated profile fetch.
type AccountAPI interface {
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}

// Manager owns the session: the authenticated identity, the token pair,
// and their mirror in the persisted store. All protocol steps commit
// all-or-nothing; a failed login never leaves tokens behind.
type Manager struct {
	auth     AuthAPI
	accounts AccountAPI
	store    sessionstore.Store
	logger   *zap.Logger

	mu           sync.RWMutex
	user         *domain.User
	accessToken  string
	refreshToken string
}

// NewManager creates a session manager and subscribes it to the bus so a
// session-expired notification from the API layer clears in-memory state.
func NewManager(auth AuthAPI, accounts AccountAPI, store sessionstore.Store, bus *events.Bus, logger *zap.Logger) *Manager {
	m := &Manager{
		auth:     auth,
		accounts: accounts,
		store:    store,
		logger:   logger,
	}

	bus.SubscribeSessionExpired(func(ev events.SessionExpired) {
		m.logger.Info("Session expired, clearing in-memory state",
			zap.Int("status", ev.Status),
		)
		m.reset()
	})

	return m
}

// Login authenticates in two phases: exchange credentials for tokens, then
// fetch the full profile by email. The tokens are persisted between the
// phases because the profile fetch must be authenticated; if either phase
// fails they are rolled back and nothing is committed.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	authResp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Debug("Login failed during token exchange", zap.Error(err))
		return false
	}

	return m.completeAuth(ctx, authResp)
}

// Register creates an account and then fetches the freshly created profile
// by email, with the same all-or-nothing commit rule as Login.
func (m *Manager) Register(ctx context.Context, name, email, password string) bool {
	authResp, err := m.auth.Register(ctx, name, email, password)
	if err != nil {
		m.logger.Debug("Registration failed during account creation", zap.Error(err))
		return false
	}

	return m.completeAuth(ctx, authResp)
}

// completeAuth runs phase 2 and commits the session.
func (m *Manager) completeAuth(ctx context.Context, authResp api.AuthResponse) bool {
	// Commit the tokens so the profile fetch is authenticated
	if err := m.store.SaveTokens(authResp.AccessToken, authResp.RefreshToken); err != nil {
		m.logger.Error("Failed to persist tokens", zap.Error(err))
		m.rollback()
		return false
	}

	account, err := m.accounts.FindByEmail(ctx, authResp.Email)
	if err != nil {
		m.logger.Warn("Profile fetch failed after successful authentication", zap.Error(err))
		m.rollback()
		return false
	}

	user := domain.UserFromAccount(account)

	rec := sessionstore.Record{
		User:         &user,
		AccessToken:  authResp.AccessToken,
		RefreshToken: authResp.RefreshToken,
	}
	if err := m.store.Save(rec); err != nil {
		m.logger.Error("Failed to persist session", zap.Error(err))
		m.rollback()
		return false
	}

	m.mu.Lock()
	m.user = &user
	m.accessToken = authResp.AccessToken
	m.refreshToken = authResp.RefreshToken
	m.mu.Unlock()

	m.logger.Info("Session established",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return true
}

// rollback clears any speculatively persisted tokens.
func (m *Manager) rollback() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("Failed to roll back persisted session", zap.Error(err))
	}
	m.reset()
}

// Logout clears persisted and in-memory session state unconditionally.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("Failed to clear persisted session on logout", zap.Error(err))
	}
	m.reset()
	m.logger.Info("Logged out")
}

// Resume re-hydrates the session from the persisted store. Returns false
// when nothing usable is stored. A record without an identity (a crash
// between the login phases) is discarded.
func (m *Manager) Resume() bool {
	rec, err := m.store.Load()
	if err != nil {
		return false
	}
	if rec.User == nil {
		m.rollback()
		return false
	}

	m.mu.Lock()
	m.user = rec.User
	m.accessToken = rec.AccessToken
	m.refreshToken = rec.RefreshToken
	m.mu.Unlock()

	m.logger.Info("Session resumed", zap.String("user_id", rec.User.ID))
	return true
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.user = nil
	m.accessToken = ""
	m.refreshToken = ""
	m.mu.Unlock()
}

// Current returns the authenticated identity, if any.
func (m *Manager) Current() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

// IsAuthenticated reports whether a session is committed.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// IsAdmin reports whether the current session carries the admin role.
func (m *Manager) IsAdmin() bool {
	user, ok := m.Current()
	return ok && user.Role == domain.RoleAdmin
}

// AccessToken returns the in-memory access token. The API layer reads the
// persisted store instead, so tokens saved mid-login are already attached.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RefreshToken returns the in-memory refresh token.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}
