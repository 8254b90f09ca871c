package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/flowtrack/internal/store"
)

func sampleData() ([]store.Task, []store.DailyProductivity) {
	now := time.Now().UTC()

	tasks := []store.Task{
		{
			ID:        1,
			UserName:  "alice",
			Text:      "Write report",
			Duration:  90,
			Completed: true,
			CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:        2,
			UserName:  "alice",
			Text:      "Review PRs",
			Duration:  45,
			Completed: false,
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	snaps := []store.DailyProductivity{
		{
			UserName:             "alice",
			Date:                 "2025-06-16",
			ProductivityPercent:  62.5,
			CompletedTaskMinutes: 90,
			PendingTaskMinutes:   45,
			AvailableHours:       15,
		},
	}

	return tasks, snaps
}

// ============================================================
// CSV
// ============================================================

func TestTasksToCSV(t *testing.T) {
	tasks, _ := sampleData()
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := TasksToCSV(tasks, path); err != nil {
		t.Fatalf("TasksToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "User", "Task", "Duration (min)", "Duration", "Completed", "Created"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "1" {
		t.Fatalf("ID = %q, want 1", row[0])
	}
	if row[2] != "Write report" {
		t.Fatalf("Task = %q, want 'Write report'", row[2])
	}
	if row[3] != "90" {
		t.Fatalf("Duration (min) = %q, want 90", row[3])
	}
	if row[4] != "1h 30m" {
		t.Fatalf("Duration = %q, want '1h 30m'", row[4])
	}
	if row[5] != "yes" {
		t.Fatalf("Completed = %q, want yes", row[5])
	}

	if records[2][5] != "no" {
		t.Fatalf("pending task should export Completed=no, got %q", records[2][5])
	}
}

func TestTasksToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := TasksToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestTasksToCSVBadPath(t *testing.T) {
	if err := TasksToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestTasksToCSVSpecialCharacters(t *testing.T) {
	tasks := []store.Task{
		{
			ID:        1,
			UserName:  "alice",
			Text:      `task with "quotes" and, commas`,
			Duration:  30,
			CreatedAt: time.Now(),
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := TasksToCSV(tasks, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][2] != `task with "quotes" and, commas` {
		t.Fatalf("task text mangled: %q", records[1][2])
	}
}

func TestSnapshotsToCSV(t *testing.T) {
	_, snaps := sampleData()
	path := filepath.Join(t.TempDir(), "snaps.csv")

	if err := SnapshotsToCSV(snaps, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	row := records[1]
	if row[0] != "2025-06-16" {
		t.Fatalf("Date = %q", row[0])
	}
	if row[2] != "62.5" {
		t.Fatalf("Productivity = %q, want 62.5", row[2])
	}
	if row[5] != "15" {
		t.Fatalf("Available = %q, want 15", row[5])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	tasks, snaps := sampleData()
	path := filepath.Join(t.TempDir(), "export.json")

	if err := ToJSON("alice", tasks, snaps, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.User != "alice" {
		t.Fatalf("user = %q, want alice", result.User)
	}
	if result.TaskCount != 2 {
		t.Fatalf("task_count = %d, want 2", result.TaskCount)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	task := result.Tasks[0]
	if task.Task != "Write report" {
		t.Fatalf("Task = %q", task.Task)
	}
	if task.DurationMin != 90 {
		t.Fatalf("DurationMin = %d, want 90", task.DurationMin)
	}
	if task.Duration != "1h 30m" {
		t.Fatalf("Duration = %q, want '1h 30m'", task.Duration)
	}
	if !task.Completed {
		t.Fatal("first task should be completed")
	}

	if len(result.Snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(result.Snapshots))
	}
	if result.Snapshots[0].ProductivityPct != 62.5 {
		t.Fatalf("productivity = %v, want 62.5", result.Snapshots[0].ProductivityPct)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON("alice", nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.TaskCount != 0 {
		t.Fatalf("task_count = %d, want 0", result.TaskCount)
	}
	if result.Tasks != nil {
		t.Fatal("tasks should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON("alice", nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON("alice", nil, nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	tasks, snaps := sampleData()
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON("alice", tasks, snaps, path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, task := range result.Tasks {
		if _, err := time.Parse(time.RFC3339, task.CreatedAt); err != nil {
			t.Fatalf("created_at is not valid RFC3339: %q", task.CreatedAt)
		}
	}
}

// ============================================================
// formatMinutes (internal helper)
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int64
		want string
	}{
		{0, "0m"},
		{30, "30m"},
		{59, "59m"},
		{60, "1h 0m"},
		{90, "1h 30m"},
		{125, "2h 5m"},
		{1440, "24h 0m"},
	}

	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}
