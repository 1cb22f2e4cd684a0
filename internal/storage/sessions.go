package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/model"
)

// SaveSession stores the signed-in session, replacing any previous one.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session model.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(session.Token, "token"); err != nil {
		return err
	}

	savedAt := session.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, user_name, user_email, user_role, saved_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_name = excluded.user_name,
			user_email = excluded.user_email,
			user_role = excluded.user_role,
			saved_at = excluded.saved_at`,
		session.Token, session.User.Name, session.User.Email, session.User.Role, savedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session or common.ErrNotFound.
func (s *SQLiteStorage) LoadSession(ctx context.Context) (model.Session, error) {
	if err := validateContext(ctx); err != nil {
		return model.Session{}, err
	}

	var session model.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_name, user_email, user_role, saved_at
		FROM sessions WHERE id = 1`,
	).Scan(&session.Token, &session.User.Name, &session.User.Email, &session.User.Role, &session.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, common.ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// ClearSession removes the stored session. Clearing an empty store is not an error.
func (s *SQLiteStorage) ClearSession(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
