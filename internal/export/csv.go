package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/flowtrack/internal/store"
)

func TasksToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "User", "Task", "Duration (min)", "Duration", "Completed", "Created"}); err != nil {
		return err
	}

	for _, t := range tasks {
		completed := "no"
		if t.Completed {
			completed = "yes"
		}
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.UserName,
			t.Text,
			fmt.Sprintf("%d", t.Duration),
			formatMinutes(t.Duration),
			completed,
			t.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func SnapshotsToCSV(snaps []store.DailyProductivity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "User", "Productivity (%)", "Completed (min)", "Pending (min)", "Available (h)"}); err != nil {
		return err
	}

	for _, sn := range snaps {
		row := []string{
			sn.Date,
			sn.UserName,
			fmt.Sprintf("%.1f", sn.ProductivityPercent),
			fmt.Sprintf("%d", sn.CompletedTaskMinutes),
			fmt.Sprintf("%d", sn.PendingTaskMinutes),
			fmt.Sprintf("%d", sn.AvailableHours),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatMinutes(mins int64) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
