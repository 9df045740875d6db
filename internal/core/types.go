package core

import (
	"time"
)

// Task status constants
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// MaxLogMinutes caps a single manual time log at one day.
const MaxLogMinutes = 1440

// Task represents a work item owned by a single user
type Task struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Status       string    `json:"status"` // todo, in_progress, done
	TotalMinutes int       `json:"total_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimeEntry represents one row of the time ledger
type TimeEntry struct {
	ID       string    `json:"id"`
	TaskID   string    `json:"task_id"`
	UserID   string    `json:"user_id"`
	Minutes  int       `json:"minutes"`
	Auto     bool      `json:"auto"` // true when created by the reconciler
	LoggedAt time.Time `json:"logged_at"`
}

// CreateTaskRequest holds the caller-supplied fields for a new task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"` // defaults to todo
}

// UpdateTaskRequest holds the editable fields of an existing task.
// Status changes go through Transition, never through here.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TransitionResult reports the outcome of a status transition. The status
// change itself is authoritative; AutoTimeLogged/AutoTimeRemoved report
// the committed ledger side effect, and SideEffectErr carries a
// reconciliation failure that was logged and swallowed.
type TransitionResult struct {
	TaskID          string `json:"task_id"`
	Status          string `json:"status"`
	AutoTimeLogged  bool   `json:"auto_time_logged"`
	AutoTimeRemoved bool   `json:"auto_time_removed"`
	SideEffectErr   error  `json:"-"`
}

// SelfDay is one calendar date of a user's own report
type SelfDay struct {
	Date         string `json:"date"`
	TotalMinutes int    `json:"total_minutes"`
	LogCount     int    `json:"log_count"`
}

// SelfReport is the self-scoped daily aggregation
type SelfReport struct {
	Empty bool      `json:"empty"`
	Days  []SelfDay `json:"days"`
}

// UserBreakdown is one (user, auto) slice of an admin report date. A user
// with both manual and auto entries on a date appears twice.
type UserBreakdown struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Minutes  int    `json:"minutes"`
	LogCount int    `json:"log_count"`
	Auto     bool   `json:"auto"`
}

// AdminDay is one calendar date of the admin report
type AdminDay struct {
	Date          string          `json:"date"`
	TotalMinutes  int             `json:"total_minutes"`
	LogCount      int             `json:"log_count"`
	AutoMinutes   int             `json:"auto_logged_minutes"`
	ManualMinutes int             `json:"manual_logged_minutes"`
	Users         []UserBreakdown `json:"users"`
}

// AdminSummary sums the admin report across all dates
type AdminSummary struct {
	ActiveDays    int `json:"active_days"`
	TotalMinutes  int `json:"total_minutes"`
	AutoMinutes   int `json:"auto_logged_minutes"`
	ManualMinutes int `json:"manual_logged_minutes"`
}

// AdminReport is the admin-scoped daily aggregation across all users
type AdminReport struct {
	Empty   bool         `json:"empty"`
	Days    []AdminDay   `json:"days"`
	Summary AdminSummary `json:"summary"`
}
