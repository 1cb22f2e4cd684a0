package storage

import (
	"context"
	"fmt"
	"time"
)

// Activity actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
	ActionExport = "export"
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// Activity is one mutation performed from this console.
type Activity struct {
	CreatedAt time.Time
	Action    string
	Subject   string
	SubjectID string
	Detail    string
	User      string
	ID        int64
}

// LogActivity appends an entry to the activity log.
func (s *SQLiteStorage) LogActivity(ctx context.Context, a *Activity) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateActivity(a); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (action, subject, subject_id, detail, user_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.Action, a.Subject, a.SubjectID, a.Detail, a.User, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}
	a.ID = id
	return nil
}

// RecentActivity returns up to limit entries, newest first.
func (s *SQLiteStorage) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, subject, subject_id, detail, user_name, created_at
		FROM activity_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Action, &a.Subject, &a.SubjectID, &a.Detail, &a.User, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity: %w", err)
	}
	return entries, nil
}
