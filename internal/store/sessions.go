package store

import (
	"fmt"
	"time"
)

// RecordFocusSession stores one completed pomodoro work phase.
func (s *Store) RecordFocusSession(userName string, durationSeconds int64, completedAt time.Time) (*FocusSession, error) {
	res, err := s.db.Exec(
		`INSERT INTO focus_sessions (user_name, duration, completed_at) VALUES (?, ?, ?)`,
		userName, durationSeconds, completedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record focus session: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify(TableSessions)

	fs := &FocusSession{
		ID:          id,
		UserName:    userName,
		Duration:    durationSeconds,
		CompletedAt: completedAt.UTC(),
	}
	return fs, nil
}

// ListFocusSessions returns sessions completed in [from, to), oldest first.
// Bounds are formatted in UTC to compare chronologically against the stored
// UTC timestamps.
func (s *Store) ListFocusSessions(from, to time.Time) ([]FocusSession, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, duration, completed_at
		 FROM focus_sessions
		 WHERE completed_at >= ? AND completed_at < ?
		 ORDER BY completed_at`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []FocusSession
	for rows.Next() {
		var fs FocusSession
		var completedAt string
		if err := rows.Scan(&fs.ID, &fs.UserName, &fs.Duration, &completedAt); err != nil {
			return nil, err
		}
		fs.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}
