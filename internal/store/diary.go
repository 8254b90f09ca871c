package store

import (
	"database/sql"
	"fmt"
)

// SaveDiaryEntry creates or overwrites the entry for (user, date) and replaces
// its habit rows wholesale.
func (s *Store) SaveDiaryEntry(e *DiaryEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save diary entry: %w", err)
	}
	defer tx.Rollback()

	var entryID int64
	err = tx.QueryRow(
		`SELECT id FROM diary_entries WHERE user_name = ? AND date = ?`,
		e.UserName, e.Date,
	).Scan(&entryID)

	switch {
	case err == sql.ErrNoRows:
		res, err := tx.Exec(
			`INSERT INTO diary_entries
			   (user_name, date, day_number, younger_self, lesson,
			    task_completion, focus_level, time_management, energy_level)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.UserName, e.Date, e.DayNumber, e.YoungerSelf, e.Lesson,
			e.TaskCompletion, e.FocusLevel, e.TimeManagement, e.EnergyLevel,
		)
		if err != nil {
			return fmt.Errorf("insert diary entry: %w", err)
		}
		entryID, _ = res.LastInsertId()
	case err != nil:
		return fmt.Errorf("find diary entry: %w", err)
	default:
		_, err = tx.Exec(
			`UPDATE diary_entries SET
			   day_number = ?, younger_self = ?, lesson = ?,
			   task_completion = ?, focus_level = ?, time_management = ?, energy_level = ?
			 WHERE id = ?`,
			e.DayNumber, e.YoungerSelf, e.Lesson,
			e.TaskCompletion, e.FocusLevel, e.TimeManagement, e.EnergyLevel, entryID,
		)
		if err != nil {
			return fmt.Errorf("update diary entry: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM daily_habits WHERE diary_entry_id = ?`, entryID); err != nil {
			return fmt.Errorf("clear habits: %w", err)
		}
	}

	for _, h := range e.Habits {
		completed := 0
		if h.Completed {
			completed = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO daily_habits (diary_entry_id, habit_name, completed) VALUES (?, ?, ?)`,
			entryID, h.HabitName, completed,
		); err != nil {
			return fmt.Errorf("insert habit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save diary entry: %w", err)
	}
	e.ID = entryID
	return nil
}

// ListDiaryEntries returns a user's entries with habits, newest date first.
func (s *Store) ListDiaryEntries(userName string) ([]DiaryEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, date, day_number, younger_self, lesson,
		        task_completion, focus_level, time_management, energy_level
		 FROM diary_entries
		 WHERE user_name = ?
		 ORDER BY date DESC`,
		userName,
	)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	var entries []DiaryEntry
	for rows.Next() {
		var e DiaryEntry
		if err := rows.Scan(&e.ID, &e.UserName, &e.Date, &e.DayNumber, &e.YoungerSelf, &e.Lesson,
			&e.TaskCompletion, &e.FocusLevel, &e.TimeManagement, &e.EnergyLevel); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		habits, err := s.listHabits(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Habits = habits
	}
	return entries, nil
}

func (s *Store) listHabits(entryID int64) ([]DailyHabit, error) {
	rows, err := s.db.Query(
		`SELECT id, diary_entry_id, habit_name, completed
		 FROM daily_habits WHERE diary_entry_id = ? ORDER BY id`,
		entryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []DailyHabit
	for rows.Next() {
		var h DailyHabit
		var completed int
		if err := rows.Scan(&h.ID, &h.DiaryEntryID, &h.HabitName, &completed); err != nil {
			return nil, err
		}
		h.Completed = completed != 0
		habits = append(habits, h)
	}
	return habits, rows.Err()
}
