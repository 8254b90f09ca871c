package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateTask(userName, text string, durationMinutes int64) (*Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO tasks (user_name, description, duration, completed, due_date, created_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		userName, text, durationMinutes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	id, _ := res.LastInsertId()
	s.notify(TableTasks)
	return s.GetTask(id)
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t := &Task{}
	var completed int
	var dueDate, createdAt string

	err := s.db.QueryRow(
		`SELECT id, user_name, description, duration, completed, due_date, created_at
		 FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserName, &t.Text, &t.Duration, &completed, &dueDate, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t.Completed = completed != 0
	t.DueDate, _ = time.Parse(time.RFC3339, dueDate)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

// ToggleTask sets the completed flag on a task.
func (s *Store) ToggleTask(id int64, completed bool) error {
	val := 0
	if completed {
		val = 1
	}
	_, err := s.db.Exec(`UPDATE tasks SET completed = ? WHERE id = ?`, val, id)
	if err != nil {
		return fmt.Errorf("toggle task %d: %w", id, err)
	}
	s.notify(TableTasks)
	return nil
}

func (s *Store) DeleteTask(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.notify(TableTasks)
	return nil
}

// ListTasks returns tasks newest-first, narrowed by the filter.
func (s *Store) ListTasks(f TaskFilter) ([]Task, error) {
	query := `SELECT id, user_name, description, duration, completed, due_date, created_at FROM tasks WHERE 1=1`
	var args []any

	if f.UserName != "" {
		query += ` AND user_name = ?`
		args = append(args, f.UserName)
	}
	// Bounds are compared as text against stored UTC timestamps, so they
	// must be formatted in UTC to order chronologically.
	if f.From != nil {
		query += ` AND created_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND created_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		var completed int
		var dueDate, createdAt string
		if err := rows.Scan(&t.ID, &t.UserName, &t.Text, &t.Duration, &completed, &dueDate, &createdAt); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		t.DueDate, _ = time.Parse(time.RFC3339, dueDate)
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
