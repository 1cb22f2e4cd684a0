package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "malex.db")

	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSession_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.LoadSession(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	session := model.Session{
		Token: "tok-1",
		User:  model.User{Name: "Jane Doe", Email: "jane@example.com", Role: "admin"},
	}
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err := store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
	assert.Equal(t, session.User, loaded.User)
	assert.False(t, loaded.SavedAt.IsZero())

	session.Token = "tok-2"
	session.User.Role = "staff"
	require.NoError(t, store.SaveSession(ctx, session))

	loaded, err = store.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", loaded.Token)
	assert.Equal(t, "staff", loaded.User.Role)

	require.NoError(t, store.ClearSession(ctx))
	_, err = store.LoadSession(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, store.ClearSession(ctx))
}

func TestSaveSession_RequiresToken(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.SaveSession(context.Background(), model.Session{User: model.User{Name: "x"}})
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSnapshots(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, _, err := LoadSnapshot[model.Record](ctx, store, SnapshotRecords)
	require.ErrorIs(t, err, common.ErrNotFound)

	records := []model.Record{
		{ID: "1", InvoiceNo: "INV-1", CustomerName: "Acme", Amount: 100},
		{ID: "2", QuotationNo: "Q-1", CustomerName: "Globex"},
	}
	require.NoError(t, SaveSnapshot(ctx, store, SnapshotRecords, records))

	loaded, takenAt, err := LoadSnapshot[model.Record](ctx, store, SnapshotRecords)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
	assert.WithinDuration(t, time.Now(), takenAt, time.Minute)

	snap, err := store.LatestSnapshot(ctx, SnapshotRecords)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.ItemCount)

	_, err = store.LatestSnapshot(ctx, SnapshotTransactions)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSnapshots_Retention(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i := range snapshotRetention + 3 {
		require.NoError(t, SaveSnapshot(ctx, store, SnapshotRecords, make([]model.Record, i)))
	}
	require.NoError(t, SaveSnapshot[model.Transaction](ctx, store, SnapshotTransactions, nil))

	n, err := store.CountSnapshots(ctx, SnapshotRecords)
	require.NoError(t, err)
	assert.Equal(t, snapshotRetention, n)

	snap, err := store.LatestSnapshot(ctx, SnapshotRecords)
	require.NoError(t, err)
	assert.Equal(t, snapshotRetention+2, snap.ItemCount)

	txs, _, err := LoadSnapshot[model.Transaction](ctx, store, SnapshotTransactions)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestActivityLog(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	entries := []*Activity{
		{Action: ActionCreate, Subject: "record", SubjectID: "r1", User: "Jane"},
		{Action: ActionDelete, Subject: "record", SubjectID: "r1", Detail: "INV-1"},
		{Action: ActionExport, Subject: "records", Detail: "xlsx"},
	}
	for _, a := range entries {
		require.NoError(t, store.LogActivity(ctx, a))
		assert.NotZero(t, a.ID)
	}

	recent, err := store.RecentActivity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ActionExport, recent[0].Action)
	assert.Equal(t, ActionDelete, recent[1].Action)
	assert.Equal(t, "INV-1", recent[1].Detail)

	_, err = store.RecentActivity(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
