package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateUser inserts a new user row
func (s *Store) CreateUser(ctx context.Context, user *UserRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt)

	return err
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE id = ?
	`, id), id)
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*UserRecord, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = ?
	`, username), username)
}

func (s *Store) scanUser(row *sql.Row, key string) (*UserRecord, error) {
	var user UserRecord
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
