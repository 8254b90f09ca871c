package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertSleepSchedule saves the wake/sleep times for a calendar day. At most
// one row exists per (user, date); a second save overwrites the first.
func (s *Store) UpsertSleepSchedule(userName, date, wakeUpTime, sleepTime string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO sleep_schedules (user_name, date, wake_up_time, sleep_time, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_name, date) DO UPDATE SET
		   wake_up_time = excluded.wake_up_time,
		   sleep_time   = excluded.sleep_time,
		   updated_at   = excluded.updated_at`,
		userName, date, wakeUpTime, sleepTime, now,
	)
	if err != nil {
		return fmt.Errorf("upsert sleep schedule: %w", err)
	}
	return nil
}

// GetSleepSchedule returns the schedule for one day, or nil when none is set.
func (s *Store) GetSleepSchedule(userName, date string) (*SleepSchedule, error) {
	sched := &SleepSchedule{}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT id, user_name, date, wake_up_time, sleep_time, updated_at
		 FROM sleep_schedules WHERE user_name = ? AND date = ?`,
		userName, date,
	).Scan(&sched.ID, &sched.UserName, &sched.Date, &sched.WakeUpTime, &sched.SleepTime, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sleep schedule: %w", err)
	}
	sched.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return sched, nil
}

// ListSleepSchedules returns schedules on or after fromDate, oldest first.
func (s *Store) ListSleepSchedules(userName, fromDate string) ([]SleepSchedule, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, date, wake_up_time, sleep_time, updated_at
		 FROM sleep_schedules
		 WHERE user_name = ? AND date >= ?
		 ORDER BY date`,
		userName, fromDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list sleep schedules: %w", err)
	}
	defer rows.Close()

	var scheds []SleepSchedule
	for rows.Next() {
		var sched SleepSchedule
		var updatedAt string
		if err := rows.Scan(&sched.ID, &sched.UserName, &sched.Date, &sched.WakeUpTime, &sched.SleepTime, &updatedAt); err != nil {
			return nil, err
		}
		sched.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		scheds = append(scheds, sched)
	}
	return scheds, rows.Err()
}
