package store

import (
	"database/sql"
	"fmt"
)

// UpsertDailyProductivity saves a snapshot keyed on (user, date); a second
// write for the same key overwrites every derived field.
func (s *Store) UpsertDailyProductivity(p *DailyProductivity) error {
	_, err := s.db.Exec(
		`INSERT INTO daily_productivity
		   (user_name, date, productivity_percentage, total_work_hours,
		    available_hours, completed_tasks_minutes, pending_tasks_minutes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_name, date) DO UPDATE SET
		   productivity_percentage = excluded.productivity_percentage,
		   total_work_hours        = excluded.total_work_hours,
		   available_hours         = excluded.available_hours,
		   completed_tasks_minutes = excluded.completed_tasks_minutes,
		   pending_tasks_minutes   = excluded.pending_tasks_minutes`,
		p.UserName, p.Date, p.ProductivityPercent, p.TotalWorkHours,
		p.AvailableHours, p.CompletedTaskMinutes, p.PendingTaskMinutes,
	)
	if err != nil {
		return fmt.Errorf("upsert daily productivity: %w", err)
	}
	return nil
}

// GetDailyProductivity returns the snapshot for one day, or nil when absent.
func (s *Store) GetDailyProductivity(userName, date string) (*DailyProductivity, error) {
	p := &DailyProductivity{}
	err := s.db.QueryRow(
		`SELECT id, user_name, date, productivity_percentage, total_work_hours,
		        available_hours, completed_tasks_minutes, pending_tasks_minutes
		 FROM daily_productivity WHERE user_name = ? AND date = ?`,
		userName, date,
	).Scan(&p.ID, &p.UserName, &p.Date, &p.ProductivityPercent, &p.TotalWorkHours,
		&p.AvailableHours, &p.CompletedTaskMinutes, &p.PendingTaskMinutes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily productivity: %w", err)
	}
	return p, nil
}

// ListDailyProductivity returns snapshots on or after fromDate, oldest first.
func (s *Store) ListDailyProductivity(userName, fromDate string) ([]DailyProductivity, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, date, productivity_percentage, total_work_hours,
		        available_hours, completed_tasks_minutes, pending_tasks_minutes
		 FROM daily_productivity
		 WHERE user_name = ? AND date >= ?
		 ORDER BY date`,
		userName, fromDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily productivity: %w", err)
	}
	defer rows.Close()

	var snaps []DailyProductivity
	for rows.Next() {
		var p DailyProductivity
		if err := rows.Scan(&p.ID, &p.UserName, &p.Date, &p.ProductivityPercent, &p.TotalWorkHours,
			&p.AvailableHours, &p.CompletedTaskMinutes, &p.PendingTaskMinutes); err != nil {
			return nil, err
		}
		snaps = append(snaps, p)
	}
	return snaps, rows.Err()
}
