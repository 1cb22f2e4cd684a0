package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
	"github.com/Veraticus/malex-office/internal/storage"
)

type fakeBackend struct {
	err   error
	calls int
}

func (f *fakeBackend) Logout(context.Context) error {
	f.calls++
	return f.err
}

func newManager(t *testing.T) (*Manager, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m, err := NewManager(context.Background(), store)
	require.NoError(t, err)
	return m, store
}

func TestManager_SignedOut(t *testing.T) {
	m, _ := newManager(t)

	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	assert.Empty(t, m.Role())
	assert.Equal(t, "U", m.Initials())
	assert.ErrorIs(t, m.RequireAuth(), common.ErrNotAuthenticated)
	assert.ErrorIs(t, m.RequireRole("admin"), common.ErrNotAuthenticated)
}

func TestManager_LoginPersists(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	user := model.User{Name: "jane doe", Email: "jane@example.com", Role: "admin"}
	require.NoError(t, m.Login(ctx, " tok ", user))

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok", m.Token())
	assert.Equal(t, "JD", m.Initials())
	assert.NoError(t, m.RequireRole("admin"))

	err := m.RequireRole("accountant")
	require.ErrorIs(t, err, common.ErrForbidden)
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)

	reloaded, err := NewManager(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "tok", reloaded.Token())
	got, ok := reloaded.User()
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_LoginRequiresToken(t *testing.T) {
	m, _ := newManager(t)
	err := m.Login(context.Background(), "", model.User{Name: "x"})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestManager_LogoutIsBestEffort(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "tok", model.User{Name: "Jane"}))

	backend := &fakeBackend{err: errors.New("connection reset")}
	require.NoError(t, m.Logout(ctx, backend))

	assert.Equal(t, 1, backend.calls)
	assert.False(t, m.IsAuthenticated())
	_, err := store.LoadSession(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// No token, no backend call.
	require.NoError(t, m.Logout(ctx, backend))
	assert.Equal(t, 1, backend.calls)
}

func TestManager_Invalidate(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "tok", model.User{Name: "Jane"}))

	m.Invalidate()

	assert.Empty(t, m.Token())
	_, err := store.LoadSession(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
