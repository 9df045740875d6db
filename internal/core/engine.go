package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jyang234/timeledger/internal/storage"
)

// Engine orchestrates task lifecycle, time logging and report operations
type Engine struct {
	tasks  TaskStorage
	ledger LedgerStorage
	ids    IDGenerator
}

// EngineDeps holds dependencies for constructing an Engine.
type EngineDeps struct {
	Tasks  TaskStorage
	Ledger LedgerStorage
	IDs    IDGenerator
}

// NewEngine creates an engine backed by the SQLite store.
func NewEngine(store *storage.Store) *Engine {
	return &Engine{
		tasks:  store,
		ledger: store,
		ids:    NewIDGenerator(),
	}
}

// NewEngineWithDeps creates an engine with explicit dependencies (for testing).
func NewEngineWithDeps(deps EngineDeps) *Engine {
	ids := deps.IDs
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Engine{
		tasks:  deps.Tasks,
		ledger: deps.Ledger,
		ids:    ids,
	}
}

// CreateTask creates a task for the requester. Status defaults to todo.
func (e *Engine) CreateTask(ctx context.Context, requesterID string, req CreateTaskRequest) (*Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}

	status := req.Status
	if status == "" {
		status = StatusTodo
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	now := time.Now().UTC()
	record := &storage.TaskRecord{
		ID:          e.ids.GenerateID(),
		UserID:      requesterID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.tasks.CreateTask(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return taskFromRecord(record), nil
}

// GetTask retrieves one of the requester's tasks
func (e *Engine) GetTask(ctx context.Context, taskID, requesterID string) (*Task, error) {
	record, err := e.tasks.GetTask(ctx, taskID, requesterID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return taskFromRecord(record), nil
}

// ListTasks retrieves all of the requester's tasks
func (e *Engine) ListTasks(ctx context.Context, requesterID string) ([]*Task, error) {
	records, err := e.tasks.ListTasks(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, taskFromRecord(record))
	}
	return tasks, nil
}

// UpdateTask edits a task's plain fields. Status is out of reach here.
func (e *Engine) UpdateTask(ctx context.Context, taskID, requesterID string, req UpdateTaskRequest) (*Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidInput)
	}

	if err := e.tasks.UpdateTaskFields(ctx, taskID, requesterID, req.Title, req.Description); err != nil {
		return nil, mapStorageErr(err)
	}

	return e.GetTask(ctx, taskID, requesterID)
}

// DeleteTask removes a task and its ledger entries
func (e *Engine) DeleteTask(ctx context.Context, taskID, requesterID string) error {
	if err := e.tasks.DeleteTask(ctx, taskID, requesterID); err != nil {
		return mapStorageErr(err)
	}
	return nil
}

// LogTime appends a manual ledger entry and increments the task's total
// minutes, atomically.
func (e *Engine) LogTime(ctx context.Context, taskID, requesterID string, minutes int) (*TimeEntry, error) {
	if minutes < 1 || minutes > MaxLogMinutes {
		return nil, fmt.Errorf("minutes must be between 1 and %d, got %d: %w", MaxLogMinutes, minutes, ErrInvalidInput)
	}

	record := &storage.EntryRecord{
		ID:       e.ids.GenerateID(),
		TaskID:   taskID,
		UserID:   requesterID,
		Minutes:  minutes,
		Auto:     false,
		LoggedAt: time.Now().UTC(),
	}

	if err := e.ledger.InsertManualEntry(ctx, record); err != nil {
		return nil, mapStorageErr(err)
	}

	return entryFromRecord(record), nil
}

// ListEntries retrieves the ledger entries for one of the requester's tasks
func (e *Engine) ListEntries(ctx context.Context, taskID, requesterID string) ([]*TimeEntry, error) {
	if _, err := e.tasks.GetTask(ctx, taskID, requesterID); err != nil {
		return nil, mapStorageErr(err)
	}

	records, err := e.ledger.ListEntries(ctx, taskID, requesterID)
	if err != nil {
		return nil, err
	}

	entries := make([]*TimeEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entryFromRecord(record))
	}
	return entries, nil
}

func taskFromRecord(record *storage.TaskRecord) *Task {
	return &Task{
		ID:           record.ID,
		UserID:       record.UserID,
		Title:        record.Title,
		Description:  record.Description,
		Status:       record.Status,
		TotalMinutes: record.TotalMinutes,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func entryFromRecord(record *storage.EntryRecord) *TimeEntry {
	return &TimeEntry{
		ID:       record.ID,
		TaskID:   record.TaskID,
		UserID:   record.UserID,
		Minutes:  record.Minutes,
		Auto:     record.Auto,
		LoggedAt: record.LoggedAt,
	}
}

func mapStorageErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", err, ErrNotFound)
	}
	return err
}
