package store

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Task struct {
	ID        int64
	UserName  string
	Text      string
	Duration  int64 // minutes
	Completed bool
	DueDate   time.Time
	CreatedAt time.Time
}

type SleepSchedule struct {
	ID         int64
	UserName   string
	Date       string // YYYY-MM-DD, user-local calendar day
	WakeUpTime string // HH:mm
	SleepTime  string // HH:mm; numerically before WakeUpTime means past midnight
	UpdatedAt  time.Time
}

type DiaryEntry struct {
	ID             int64
	UserName       string
	Date           string // YYYY-MM-DD
	DayNumber      int
	YoungerSelf    string
	Lesson         string
	TaskCompletion int
	FocusLevel     int
	TimeManagement int
	EnergyLevel    int
	Habits         []DailyHabit
}

type DailyHabit struct {
	ID           int64
	DiaryEntryID int64
	HabitName    string
	Completed    bool
}

// DefaultHabits is the checklist seeded into a fresh diary entry.
var DefaultHabits = []DailyHabit{
	{HabitName: "Reading"},
	{HabitName: "No social media"},
	{HabitName: "Gym"},
	{HabitName: "12h work"},
}

// FocusSession is one completed pomodoro work phase.
type FocusSession struct {
	ID          int64
	UserName    string
	Duration    int64 // seconds
	CompletedAt time.Time
}

type Post struct {
	ID        int64
	UserName  string
	Content   string
	Likes     int64
	CreatedAt time.Time
}

// DailyProductivity is the persisted end-of-day snapshot. One row per
// (user, date); saving the same key again overwrites.
type DailyProductivity struct {
	ID                   int64
	UserName             string
	Date                 string // YYYY-MM-DD
	ProductivityPercent  float64
	TotalWorkHours       float64
	AvailableHours       int64
	CompletedTaskMinutes int64
	PendingTaskMinutes   int64
}

type Setting struct {
	Key   string
	Value string
}

// TaskFilter is used to filter task rows in queries.
type TaskFilter struct {
	UserName string
	From     *time.Time
	To       *time.Time
	Limit    int
}
