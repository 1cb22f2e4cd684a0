// Package auth tracks the signed-in operator and gates commands by role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
)

// SessionStore persists the session between runs.
type SessionStore interface {
	SaveSession(ctx context.Context, session model.Session) error
	LoadSession(ctx context.Context) (model.Session, error)
	ClearSession(ctx context.Context) error
}

// BackendLogout notifies the backend that a token is being discarded.
type BackendLogout interface {
	Logout(ctx context.Context) error
}

// Manager holds the current session. It satisfies api.TokenSource.
type Manager struct {
	store   SessionStore
	session model.Session
	mu      sync.RWMutex
}

// NewManager loads the stored session, if any.
func NewManager(ctx context.Context, store SessionStore) (*Manager, error) {
	m := &Manager{store: store}

	session, err := store.LoadSession(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return m, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	m.session = session
	return m, nil
}

// Login stores a new session for user.
func (m *Manager) Login(ctx context.Context, token string, user model.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.NewUserError("A token is required to log in", common.ErrMissingConfig)
	}

	session := model.Session{Token: token, User: user, SavedAt: time.Now()}
	if err := m.store.SaveSession(ctx, session); err != nil {
		return err
	}

	m.mu.Lock()
	m.session = session
	m.mu.Unlock()

	slog.Info("Logged in", "user", user.DisplayName(), "role", user.Role)
	return nil
}

// Logout tells the backend (best effort) and then forgets the local session.
// A failing backend call is logged and never returned.
func (m *Manager) Logout(ctx context.Context, backend BackendLogout) error {
	if backend != nil && m.Token() != "" {
		if err := backend.Logout(ctx); err != nil {
			common.LogBestEffort(err, "backend logout")
		}
	}
	return m.clear(ctx)
}

// Invalidate drops the session after the backend rejected its token.
func (m *Manager) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.clear(ctx); err != nil {
		slog.Warn("Failed to clear rejected session", "error", err)
	}
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	m.session = model.Session{}
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Token returns the bearer token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

// IsAuthenticated reports whether both a token and a user are known.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Valid()
}

// User returns the signed-in user and whether there is one.
func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.User, m.session.Valid()
}

// Role returns the signed-in user's role, or "" when signed out.
func (m *Manager) Role() string {
	user, ok := m.User()
	if !ok {
		return ""
	}
	return user.Role
}

// Initials returns the avatar initials of the signed-in user.
func (m *Manager) Initials() string {
	user, _ := m.User()
	return user.Initials()
}

// RequireAuth fails with common.ErrNotAuthenticated when signed out.
func (m *Manager) RequireAuth() error {
	if !m.IsAuthenticated() {
		return common.NewUserError("Please log in first (malex auth login)", common.ErrNotAuthenticated)
	}
	return nil
}

// RequireRole fails unless the signed-in user has exactly role.
func (m *Manager) RequireRole(role string) error {
	if err := m.RequireAuth(); err != nil {
		return err
	}
	if got := m.Role(); got != role {
		return common.NewUserError("You do not have permission to access this page",
			fmt.Errorf("%w: need %q, have %q", common.ErrForbidden, role, got))
	}
	return nil
}
