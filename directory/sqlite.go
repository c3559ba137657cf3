package directory

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	authgate "github.com/authgate-dev/authgate"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	reset_token   TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_reset_token ON users (reset_token) WHERE reset_token <> '';
`

// SQLite is a UserDirectory over a single SQLite file, suitable for
// durable single-node deployments.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the directory database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("directory path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FindByEmail implements [authgate.UserDirectory].
func (s *SQLite) FindByEmail(ctx context.Context, email string) ([]authgate.Principal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, reset_token FROM users WHERE email = ?`, email)
	if err != nil {
		return nil, fmt.Errorf("query users by email: %w", err)
	}
	defer rows.Close()

	var out []authgate.Principal
	for rows.Next() {
		var p authgate.Principal
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.ResetToken); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return out, nil
}

// FindByID implements [authgate.UserDirectory].
func (s *SQLite) FindByID(ctx context.Context, id string) (authgate.Principal, error) {
	return s.findOne(ctx,
		`SELECT id, email, password_hash, reset_token FROM users WHERE id = ?`, id)
}

// FindByResetToken implements [authgate.UserDirectory].
func (s *SQLite) FindByResetToken(ctx context.Context, token string) (authgate.Principal, error) {
	if token == "" {
		return authgate.Principal{}, authgate.ErrUserNotFound
	}
	return s.findOne(ctx,
		`SELECT id, email, password_hash, reset_token FROM users WHERE reset_token = ?`, token)
}

func (s *SQLite) findOne(ctx context.Context, query string, arg any) (authgate.Principal, error) {
	var p authgate.Principal
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.Email, &p.PasswordHash, &p.ResetToken)
	if errors.Is(err, sql.ErrNoRows) {
		return authgate.Principal{}, authgate.ErrUserNotFound
	}
	if err != nil {
		return authgate.Principal{}, fmt.Errorf("query user: %w", err)
	}
	return p, nil
}

// Insert implements [authgate.UserDirectory]. Duplicate emails surface as
// [authgate.ErrAlreadyExists] via the unique constraint, so two concurrent
// registrations cannot both win.
func (s *SQLite) Insert(ctx context.Context, email, passwordHash string) (authgate.Principal, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), rand.Reader)
	if err != nil {
		return authgate.Principal{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id.String(), email, passwordHash, time.Now().UTC().UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return authgate.Principal{}, authgate.ErrAlreadyExists
		}
		return authgate.Principal{}, fmt.Errorf("insert user: %w", err)
	}

	return authgate.Principal{
		ID:           id.String(),
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// UpdatePasswordHash implements [authgate.UserDirectory].
func (s *SQLite) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return s.updateColumn(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

// UpdateResetToken implements [authgate.UserDirectory].
func (s *SQLite) UpdateResetToken(ctx context.Context, id, token string) error {
	return s.updateColumn(ctx,
		`UPDATE users SET reset_token = ? WHERE id = ?`, token, id)
}

func (s *SQLite) updateColumn(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return authgate.ErrUserNotFound
	}
	return nil
}
