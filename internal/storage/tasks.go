package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateTask inserts a new task row
func (s *Store) CreateTask(ctx context.Context, task *TaskRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, status, total_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.UserID, task.Title, task.Description, task.Status, task.TotalMinutes, task.CreatedAt, task.UpdatedAt)

	return err
}

// GetTask retrieves a task by ID, scoped to its owner
func (s *Store) GetTask(ctx context.Context, taskID, userID string) (*TaskRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, status, total_minutes, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?
	`, taskID, userID)

	var task TaskRecord
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Status, &task.TotalMinutes, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return nil, err
	}

	return &task, nil
}

// ListTasks retrieves all tasks owned by a user, most recently updated first
func (s *Store) ListTasks(ctx context.Context, userID string) ([]*TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, status, total_minutes, created_at, updated_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*TaskRecord
	for rows.Next() {
		var task TaskRecord
		err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Status, &task.TotalMinutes, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}

// UpdateTaskFields updates a task's title and description
func (s *Store) UpdateTaskFields(ctx context.Context, taskID, userID, title, description string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, description, time.Now().UTC(), taskID, userID)
	if err != nil {
		return err
	}

	return requireRow(res, taskID)
}

// DeleteTask removes a task and its ledger entries in one transaction
func (s *Store) DeleteTask(ctx context.Context, taskID, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return err
	}
	if err := requireRow(res, taskID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_logs WHERE task_id = ? AND user_id = ?`, taskID, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// TransitionTask reads the task's current status and total minutes and
// persists the new status, all inside one transaction so a concurrent
// transition can never produce a torn (previousStatus, estimate) pair.
func (s *Store) TransitionTask(ctx context.Context, taskID, userID, newStatus string) (prevStatus string, estimate int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT status, total_minutes FROM tasks WHERE id = ? AND user_id = ?
	`, taskID, userID)
	if err := row.Scan(&prevStatus, &estimate); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
		}
		return "", 0, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`, newStatus, time.Now().UTC(), taskID, userID)
	if err != nil {
		return "", 0, err
	}

	if err := tx.Commit(); err != nil {
		return "", 0, err
	}

	return prevStatus, estimate, nil
}

func requireRow(res sql.Result, taskID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return nil
}
