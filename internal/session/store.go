package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moneytrack/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps at most one session row in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithComponent(log.ComponentSession),
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the stored session. There is only ever one row.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	now := time.Now().UTC()
	var expiresAt any
	if !sess.ExpiresAt.IsZero() {
		expiresAt = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, user_id, name, email, currency, expires_at, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			name = excluded.name,
			email = excluded.email,
			currency = excluded.currency,
			expires_at = excluded.expires_at,
			saved_at = excluded.saved_at
	`, sess.Token, sess.UserID, sess.Name, sess.Email, sess.Currency, expiresAt, now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "Session saved",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, sess.UserID)
	return nil
}

// Load returns the stored session. The second return value is false when no
// session is stored.
func (s *SQLiteStore) Load(ctx context.Context) (Session, bool, error) {
	var (
		sess      Session
		expiresAt sql.NullString
		savedAt   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, name, email, currency, expires_at, saved_at
		FROM session WHERE id = 1
	`).Scan(&sess.Token, &sess.UserID, &sess.Name, &sess.Email, &sess.Currency, &expiresAt, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}

	if expiresAt.Valid && expiresAt.String != "" {
		t, err := time.Parse(time.RFC3339, expiresAt.String)
		if err != nil {
			return Session{}, false, fmt.Errorf("parse session expiry: %w", err)
		}
		sess.ExpiresAt = t
	}
	if t, err := time.Parse(time.RFC3339, savedAt); err == nil {
		sess.SavedAt = t
	}
	return sess, true, nil
}

// Clear removes the stored session. Clearing an empty store is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.InfoContext(ctx, "Session cleared", log.FieldOperation, log.OpLogout)
	return nil
}
