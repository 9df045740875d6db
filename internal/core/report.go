package core

import (
	"context"
	"fmt"
)

// SelfReport aggregates the requester's own ledger entries by UTC
// calendar date, newest date first.
func (e *Engine) SelfReport(ctx context.Context, requesterID string) (*SelfReport, error) {
	rows, err := e.ledger.SelfDailyTotals(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate time logs: %w", err)
	}

	report := &SelfReport{Days: make([]SelfDay, 0, len(rows))}
	for _, row := range rows {
		report.Days = append(report.Days, SelfDay{
			Date:         row.Date,
			TotalMinutes: row.Minutes,
			LogCount:     row.Count,
		})
	}

	report.Empty = len(report.Days) == 0
	return report, nil
}

// AdminReport aggregates every user's ledger entries by UTC calendar
// date with a per-(user, auto) breakdown and a grand summary.
func (e *Engine) AdminReport(ctx context.Context) (*AdminReport, error) {
	rows, err := e.ledger.AdminDailyBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate time logs: %w", err)
	}

	report := &AdminReport{Days: []AdminDay{}}

	// Rows arrive ordered by date descending; regroup preserving order.
	var day *AdminDay
	for _, row := range rows {
		if day == nil || day.Date != row.Date {
			report.Days = append(report.Days, AdminDay{Date: row.Date})
			day = &report.Days[len(report.Days)-1]
		}

		day.Users = append(day.Users, UserBreakdown{
			UserID:   row.UserID,
			Username: row.Username,
			Minutes:  row.Minutes,
			LogCount: row.Count,
			Auto:     row.Auto,
		})
		day.TotalMinutes += row.Minutes
		day.LogCount += row.Count
		if row.Auto {
			day.AutoMinutes += row.Minutes
		} else {
			day.ManualMinutes += row.Minutes
		}
	}

	for _, d := range report.Days {
		report.Summary.ActiveDays++
		report.Summary.TotalMinutes += d.TotalMinutes
		report.Summary.AutoMinutes += d.AutoMinutes
		report.Summary.ManualMinutes += d.ManualMinutes
	}

	report.Empty = len(report.Days) == 0
	return report, nil
}
