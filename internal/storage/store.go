package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row does not exist or is owned by a
// different user.
var ErrNotFound = errors.New("not found")

// Store handles SQLite persistence for users, tasks and the time ledger
type Store struct {
	db *sql.DB
}

// TaskRecord represents a task row
type TaskRecord struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Status       string
	TotalMinutes int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryRecord represents a time ledger row
type EntryRecord struct {
	ID       string
	TaskID   string
	UserID   string
	Minutes  int
	Auto     bool
	LoggedAt time.Time
}

// UserRecord represents a user row
type UserRecord struct {
	ID           string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// DayRow is one row of the self-scoped daily grouping query.
type DayRow struct {
	Date    string
	Minutes int
	Count   int
}

// UserDayRow is one row of the admin-scoped grouping query, keyed on
// (date, user, auto).
type UserDayRow struct {
	Date     string
	UserID   string
	Username string
	Auto     bool
	Minutes  int
	Count    int
}

// New creates a new store backed by the SQLite database at dbPath
func New(dbPath string) (*Store, error) {
	// Expand ~ in path
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a second writer waits instead of failing
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'todo',
			total_minutes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE TABLE IF NOT EXISTS time_logs (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			minutes INTEGER NOT NULL,
			auto INTEGER NOT NULL DEFAULT 0,
			logged_at DATETIME NOT NULL,
			FOREIGN KEY (task_id) REFERENCES tasks(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
		CREATE INDEX IF NOT EXISTS idx_logs_task ON time_logs(task_id);
		CREATE INDEX IF NOT EXISTS idx_logs_user ON time_logs(user_id);
		CREATE INDEX IF NOT EXISTS idx_logs_auto ON time_logs(task_id, user_id, auto);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GenerateID creates a new UUID for a row
func GenerateID() string {
	return uuid.New().String()
}
