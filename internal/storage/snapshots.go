package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/malex-office/internal/common"
)

// Snapshot kinds.
const (
	SnapshotRecords      = "records"
	SnapshotTransactions = "transactions"
)

// snapshotRetention is how many snapshots of each kind are kept.
const snapshotRetention = 5

// Snapshot is a saved copy of a fetched dataset.
type Snapshot struct {
	TakenAt   time.Time
	Kind      string
	Payload   []byte
	ItemCount int
}

// SaveSnapshot stores items as the newest snapshot of kind and prunes old ones.
func SaveSnapshot[T any](ctx context.Context, s *SQLiteStorage, kind string, items []T) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(kind, "kind"); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (kind, item_count, payload, taken_at) VALUES (?, ?, ?, ?)`,
		kind, len(items), payload, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE kind = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE kind = ? ORDER BY id DESC LIMIT ?
		)`, kind, kind, snapshotRetention,
	); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot of kind or common.ErrNotFound.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context, kind string) (Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Kind: kind}
	err := s.db.QueryRowContext(ctx, `
		SELECT item_count, payload, taken_at FROM snapshots
		WHERE kind = ? ORDER BY id DESC LIMIT 1`, kind,
	).Scan(&snap.ItemCount, &snap.Payload, &snap.TakenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("no %s snapshot: %w", kind, common.ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot decodes the newest snapshot of kind.
func LoadSnapshot[T any](ctx context.Context, s *SQLiteStorage, kind string) ([]T, time.Time, error) {
	snap, err := s.LatestSnapshot(ctx, kind)
	if err != nil {
		return nil, time.Time{}, err
	}

	var items []T
	if err := json.Unmarshal(snap.Payload, &items); err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: snapshot %s: %w", common.ErrDatabaseCorrupted, kind, err)
	}
	return items, snap.TakenAt, nil
}

// CountSnapshots returns how many snapshots of kind are stored.
func (s *SQLiteStorage) CountSnapshots(ctx context.Context, kind string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE kind = ?`, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}
