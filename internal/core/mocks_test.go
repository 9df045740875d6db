package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jyang234/timeledger/internal/storage"
)

// Common test errors
var (
	ErrMockStorage = errors.New("mock storage error")
	ErrMockLedger  = errors.New("mock ledger error")
)

// MockTaskStorage implements TaskStorage for testing
type MockTaskStorage struct {
	mu sync.Mutex

	CreateFunc     func(ctx context.Context, task *storage.TaskRecord) error
	GetFunc        func(ctx context.Context, taskID, userID string) (*storage.TaskRecord, error)
	ListFunc       func(ctx context.Context, userID string) ([]*storage.TaskRecord, error)
	UpdateFunc     func(ctx context.Context, taskID, userID, title, description string) error
	DeleteFunc     func(ctx context.Context, taskID, userID string) error
	TransitionFunc func(ctx context.Context, taskID, userID, newStatus string) (string, int, error)

	TransitionCalls int
	LastNewStatus   string
}

func (m *MockTaskStorage) CreateTask(ctx context.Context, task *storage.TaskRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskStorage) GetTask(ctx context.Context, taskID, userID string) (*storage.TaskRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, taskID, userID)
	}
	return nil, fmt.Errorf("task %s: %w", taskID, storage.ErrNotFound)
}

func (m *MockTaskStorage) ListTasks(ctx context.Context, userID string) ([]*storage.TaskRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockTaskStorage) UpdateTaskFields(ctx context.Context, taskID, userID, title, description string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, taskID, userID, title, description)
	}
	return nil
}

func (m *MockTaskStorage) DeleteTask(ctx context.Context, taskID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, taskID, userID)
	}
	return nil
}

func (m *MockTaskStorage) TransitionTask(ctx context.Context, taskID, userID, newStatus string) (string, int, error) {
	m.mu.Lock()
	m.TransitionCalls++
	m.LastNewStatus = newStatus
	m.mu.Unlock()

	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, taskID, userID, newStatus)
	}
	return StatusTodo, 0, nil
}

// MockLedgerStorage implements LedgerStorage for testing
type MockLedgerStorage struct {
	mu sync.Mutex

	InsertManualFunc func(ctx context.Context, entry *storage.EntryRecord) error
	InsertAutoFunc   func(ctx context.Context, entry *storage.EntryRecord) error
	DeleteAutoFunc   func(ctx context.Context, taskID, userID string) (int64, error)
	ListFunc         func(ctx context.Context, taskID, userID string) ([]*storage.EntryRecord, error)
	SelfTotalsFunc   func(ctx context.Context, userID string) ([]storage.DayRow, error)
	AdminRowsFunc    func(ctx context.Context) ([]storage.UserDayRow, error)

	InsertAutoCalls int
	DeleteAutoCalls int
	LastAutoEntry   *storage.EntryRecord
}

func (m *MockLedgerStorage) InsertManualEntry(ctx context.Context, entry *storage.EntryRecord) error {
	if m.InsertManualFunc != nil {
		return m.InsertManualFunc(ctx, entry)
	}
	return nil
}

func (m *MockLedgerStorage) InsertAutoEntry(ctx context.Context, entry *storage.EntryRecord) error {
	m.mu.Lock()
	m.InsertAutoCalls++
	m.LastAutoEntry = entry
	m.mu.Unlock()

	if m.InsertAutoFunc != nil {
		return m.InsertAutoFunc(ctx, entry)
	}
	return nil
}

func (m *MockLedgerStorage) DeleteAutoEntries(ctx context.Context, taskID, userID string) (int64, error) {
	m.mu.Lock()
	m.DeleteAutoCalls++
	m.mu.Unlock()

	if m.DeleteAutoFunc != nil {
		return m.DeleteAutoFunc(ctx, taskID, userID)
	}
	return 0, nil
}

func (m *MockLedgerStorage) ListEntries(ctx context.Context, taskID, userID string) ([]*storage.EntryRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, taskID, userID)
	}
	return nil, nil
}

func (m *MockLedgerStorage) SelfDailyTotals(ctx context.Context, userID string) ([]storage.DayRow, error) {
	if m.SelfTotalsFunc != nil {
		return m.SelfTotalsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockLedgerStorage) AdminDailyBreakdown(ctx context.Context) ([]storage.UserDayRow, error) {
	if m.AdminRowsFunc != nil {
		return m.AdminRowsFunc(ctx)
	}
	return nil, nil
}

// seqIDGenerator issues deterministic IDs for testing
type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) GenerateID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// newTestEngine builds an engine over fresh mocks
func newTestEngine() (*Engine, *MockTaskStorage, *MockLedgerStorage) {
	tasks := &MockTaskStorage{}
	ledger := &MockLedgerStorage{}
	engine := NewEngineWithDeps(EngineDeps{
		Tasks:  tasks,
		Ledger: ledger,
		IDs:    &seqIDGenerator{},
	})
	return engine, tasks, ledger
}
