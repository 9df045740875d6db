package core

import (
	"context"

	"github.com/jyang234/timeledger/internal/storage"
)

// TaskStorage persists task rows.
// Implementations: storage.Store (SQLite)
type TaskStorage interface {
	CreateTask(ctx context.Context, task *storage.TaskRecord) error
	GetTask(ctx context.Context, taskID, userID string) (*storage.TaskRecord, error)
	ListTasks(ctx context.Context, userID string) ([]*storage.TaskRecord, error)
	UpdateTaskFields(ctx context.Context, taskID, userID, title, description string) error
	DeleteTask(ctx context.Context, taskID, userID string) error

	// TransitionTask persists newStatus and returns the previous status
	// plus the task's total minutes at that moment, read and written as
	// one atomic step.
	TransitionTask(ctx context.Context, taskID, userID, newStatus string) (prevStatus string, estimate int, err error)
}

// LedgerStorage persists and aggregates time ledger rows.
// Implementations: storage.Store (SQLite)
type LedgerStorage interface {
	InsertManualEntry(ctx context.Context, entry *storage.EntryRecord) error
	InsertAutoEntry(ctx context.Context, entry *storage.EntryRecord) error
	DeleteAutoEntries(ctx context.Context, taskID, userID string) (int64, error)
	ListEntries(ctx context.Context, taskID, userID string) ([]*storage.EntryRecord, error)
	SelfDailyTotals(ctx context.Context, userID string) ([]storage.DayRow, error)
	AdminDailyBreakdown(ctx context.Context) ([]storage.UserDayRow, error)
}

// IDGenerator generates unique identifiers.
// Implementations: storage.GenerateID (UUID-based)
type IDGenerator interface {
	GenerateID() string
}

// defaultIDGenerator uses UUID for ID generation
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) GenerateID() string {
	return storage.GenerateID()
}

// NewIDGenerator creates a default ID generator.
func NewIDGenerator() IDGenerator {
	return &defaultIDGenerator{}
}
