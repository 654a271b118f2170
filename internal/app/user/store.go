/*
Package user contains the data structures and persistence logic for chat
participants.

This file defines the Store, the pgx-backed account directory. It is both the
credential store for the auth handlers and the identity directory consulted by
the message router before anything is persisted or delivered.
*/
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"pairchat/internal/app/db"
)

// Store provides account persistence over a PostgreSQL connection pool.
type Store struct {
	pool db.DBTX
}

// NewStore constructs a Store over the given pool.
func NewStore(pool db.DBTX) *Store {
	return &Store{pool: pool}
}

// Create inserts a new account and returns the stored record.
// A duplicate username surfaces as a unique violation the caller can detect
// with db.IsUniqueViolation.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (User, error) {
	const query = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at, last_login_at`

	return s.scanUser(s.pool.QueryRow(ctx, query, username, passwordHash))
}

// GetByUsername fetches the account owning the given username.
func (s *Store) GetByUsername(ctx context.Context, username string) (User, bool, error) {
	const query = `
		SELECT id, username, password_hash, created_at, last_login_at
		FROM users
		WHERE username = $1`

	u, err := s.scanUser(s.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}

	return u, true, nil
}

// Exists reports whether the username names a known account. This is the
// identity directory lookup used by the message router.
func (s *Store) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// List returns every known username except the caller's, in alphabetical
// order. Backs the presence-aware user listing.
func (s *Store) List(ctx context.Context, except string) ([]string, error) {
	const query = `
		SELECT username
		FROM users
		WHERE username <> $1
		ORDER BY username`

	rows, err := s.pool.Query(ctx, query, except)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		usernames = append(usernames, username)
	}

	return usernames, rows.Err()
}

// UpdateLastLogin stamps the account's last successful login time.
func (s *Store) UpdateLastLogin(ctx context.Context, username string) error {
	const query = `UPDATE users SET last_login_at = now() WHERE username = $1`

	if _, err := s.pool.Exec(ctx, query, username); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// scanUser maps one row onto a User, normalizing the nullable last_login_at.
func (s *Store) scanUser(row pgx.Row) (User, error) {
	var u User
	var id pgtype.UUID
	var lastLogin pgtype.Timestamptz

	if err := row.Scan(&id, &u.Username, &u.PasswordHash, &u.CreatedAt, &lastLogin); err != nil {
		return User{}, err
	}

	u.ID = uuid.UUID(id.Bytes).String()

	if lastLogin.Valid {
		u.LastLoginAt = lastLogin.Time
	}

	return u, nil
}
