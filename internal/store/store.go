package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB

	notifier notifier
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name   TEXT NOT NULL,
		description TEXT NOT NULL,
		duration    INTEGER NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		due_date    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user    ON tasks(user_name);
	CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);

	CREATE TABLE IF NOT EXISTS sleep_schedules (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name    TEXT NOT NULL,
		date         TEXT NOT NULL,
		wake_up_time TEXT NOT NULL DEFAULT '',
		sleep_time   TEXT NOT NULL DEFAULT '',
		updated_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(user_name, date)
	);

	CREATE TABLE IF NOT EXISTS diary_entries (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name       TEXT NOT NULL,
		date            TEXT NOT NULL,
		day_number      INTEGER NOT NULL DEFAULT 1,
		younger_self    TEXT NOT NULL DEFAULT '',
		lesson          TEXT NOT NULL DEFAULT '',
		task_completion INTEGER NOT NULL DEFAULT 6,
		focus_level     INTEGER NOT NULL DEFAULT 6,
		time_management INTEGER NOT NULL DEFAULT 8,
		energy_level    INTEGER NOT NULL DEFAULT 7,
		UNIQUE(user_name, date)
	);

	CREATE TABLE IF NOT EXISTS daily_habits (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		diary_entry_id INTEGER NOT NULL REFERENCES diary_entries(id),
		habit_name     TEXT NOT NULL,
		completed      INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_habits_entry ON daily_habits(diary_entry_id);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name    TEXT NOT NULL,
		duration     INTEGER NOT NULL,
		completed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_completed ON focus_sessions(completed_at);

	CREATE TABLE IF NOT EXISTS community_posts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name  TEXT NOT NULL,
		content    TEXT NOT NULL,
		likes      INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS daily_productivity (
		id                      INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name               TEXT NOT NULL,
		date                    TEXT NOT NULL,
		productivity_percentage REAL NOT NULL DEFAULT 0,
		total_work_hours        REAL NOT NULL DEFAULT 0,
		available_hours         INTEGER NOT NULL DEFAULT 0,
		completed_tasks_minutes INTEGER NOT NULL DEFAULT 0,
		pending_tasks_minutes   INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_name, date)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_work',       '1500'),
		('pomodoro_break',      '300'),
		('pomodoro_long_break', '900'),
		('pomodoro_count',      '4'),
		('task_duration',       '30'),
		('wake_up_time',        '07:00'),
		('sleep_time',          '22:00'),
		('sound_volume',        '50');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/flowtrack/flowtrack.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "flowtrack", "flowtrack.db"), nil
}
