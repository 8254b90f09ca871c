package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/flowtrack/internal/store"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	User       string         `json:"user"`
	TaskCount  int            `json:"task_count"`
	Tasks      []jsonTask     `json:"tasks"`
	Snapshots  []jsonSnapshot `json:"snapshots,omitempty"`
}

type jsonTask struct {
	ID          int64  `json:"id"`
	Task        string `json:"task"`
	DurationMin int64  `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

type jsonSnapshot struct {
	Date            string  `json:"date"`
	ProductivityPct float64 `json:"productivity_percent"`
	CompletedMin    int64   `json:"completed_minutes"`
	PendingMin      int64   `json:"pending_minutes"`
	AvailableHours  int64   `json:"available_hours"`
}

func ToJSON(userName string, tasks []store.Task, snaps []store.DailyProductivity, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		User:       userName,
		TaskCount:  len(tasks),
	}

	for _, t := range tasks {
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          t.ID,
			Task:        t.Text,
			DurationMin: t.Duration,
			Duration:    formatMinutes(t.Duration),
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt.Local().Format(time.RFC3339),
		})
	}

	for _, sn := range snaps {
		export.Snapshots = append(export.Snapshots, jsonSnapshot{
			Date:            sn.Date,
			ProductivityPct: sn.ProductivityPercent,
			CompletedMin:    sn.CompletedTaskMinutes,
			PendingMin:      sn.PendingTaskMinutes,
			AvailableHours:  sn.AvailableHours,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
