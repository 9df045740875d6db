package storage

import (
	"context"
	"time"
)

// InsertManualEntry inserts a manual ledger entry and bumps the owning
// task's total minutes. Both writes commit or roll back together.
func (s *Store) InsertManualEntry(ctx context.Context, entry *EntryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE tasks SET total_minutes = total_minutes + ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, entry.Minutes, time.Now().UTC(), entry.TaskID, entry.UserID)
	if err != nil {
		return err
	}
	if err := requireRow(res, entry.TaskID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO time_logs (id, task_id, user_id, minutes, auto, logged_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`, entry.ID, entry.TaskID, entry.UserID, entry.Minutes, entry.LoggedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// InsertAutoEntry inserts a reconciler-generated ledger entry. The task's
// total minutes are left untouched; the entry records the estimate.
func (s *Store) InsertAutoEntry(ctx context.Context, entry *EntryRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_logs (id, task_id, user_id, minutes, auto, logged_at)
		VALUES (?, ?, ?, ?, 1, ?)
	`, entry.ID, entry.TaskID, entry.UserID, entry.Minutes, entry.LoggedAt)

	return err
}

// DeleteAutoEntries removes every auto-flagged entry for a task+user pair.
// Deleting zero rows is not an error, so retries are harmless.
func (s *Store) DeleteAutoEntries(ctx context.Context, taskID, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM time_logs WHERE task_id = ? AND user_id = ? AND auto = 1
	`, taskID, userID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// ListEntries retrieves all ledger entries for a task+user pair, newest first
func (s *Store) ListEntries(ctx context.Context, taskID, userID string) ([]*EntryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, user_id, minutes, auto, logged_at
		FROM time_logs
		WHERE task_id = ? AND user_id = ?
		ORDER BY logged_at DESC
	`, taskID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*EntryRecord
	for rows.Next() {
		var entry EntryRecord
		err := rows.Scan(&entry.ID, &entry.TaskID, &entry.UserID, &entry.Minutes, &entry.Auto, &entry.LoggedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// SelfDailyTotals groups one user's ledger entries by calendar date (UTC),
// newest date first.
func (s *Store) SelfDailyTotals(ctx context.Context, userID string) ([]DayRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(logged_at), SUM(minutes), COUNT(*)
		FROM time_logs
		WHERE user_id = ?
		GROUP BY date(logged_at)
		ORDER BY date(logged_at) DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DayRow
	for rows.Next() {
		var day DayRow
		if err := rows.Scan(&day.Date, &day.Minutes, &day.Count); err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, rows.Err()
}

// AdminDailyBreakdown groups all users' ledger entries by
// (date, user, auto), newest date first.
func (s *Store) AdminDailyBreakdown(ctx context.Context) ([]UserDayRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(l.logged_at), l.user_id, u.username, l.auto, SUM(l.minutes), COUNT(*)
		FROM time_logs l
		JOIN users u ON u.id = l.user_id
		GROUP BY date(l.logged_at), l.user_id, l.auto
		ORDER BY date(l.logged_at) DESC, u.username ASC, l.auto ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []UserDayRow
	for rows.Next() {
		var row UserDayRow
		err := rows.Scan(&row.Date, &row.UserID, &row.Username, &row.Auto, &row.Minutes, &row.Count)
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, row)
	}

	return breakdown, rows.Err()
}
