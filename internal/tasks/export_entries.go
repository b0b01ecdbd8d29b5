package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/avolkau/daybook/internal/exporters"
	"github.com/avolkau/daybook/internal/settingsstore"
)

// ExportEntriesTask exports journal entries to markdown. Empty From/To
// export the whole journal; otherwise both bound the range (inclusive),
// formatted as 2006-01-02.
type ExportEntriesTask struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Config returns the queue configuration for export tasks.
func (t ExportEntriesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_entries",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportEntriesProcessor creates the processor function for export tasks.
func ExportEntriesProcessor(exporter *exporters.DatabaseMarkdownExporter, exportStore *settingsstore.ExportStore) backlite.QueueProcessor[ExportEntriesTask] {
	return func(ctx context.Context, task ExportEntriesTask) error {
		if exporter == nil {
			return fmt.Errorf("exporter not configured")
		}

		var result exporters.ExportResult
		var err error

		if task.From == "" && task.To == "" {
			result, err = exporter.ExportAll()
		} else {
			var from, to time.Time
			from, err = time.Parse("2006-01-02", task.From)
			if err != nil {
				return fmt.Errorf("invalid from date %q: %w", task.From, err)
			}
			to, err = time.Parse("2006-01-02", task.To)
			if err != nil {
				return fmt.Errorf("invalid to date %q: %w", task.To, err)
			}
			result, err = exporter.ExportRange(from, to)
		}
		if err != nil {
			_ = exportStore.SetStatus(fmt.Sprintf("failed: %v", err))
			return fmt.Errorf("export entries: %w", err)
		}

		msg := fmt.Sprintf("exported %d entries (%d failed)", result.EntriesProcessed, result.EntriesFailed)
		log.Printf("[TASK] %s", msg)
		return exportStore.SetStatus(msg)
	}
}

// NewExportEntriesQueue creates a backlite queue for export tasks.
func NewExportEntriesQueue(exporter *exporters.DatabaseMarkdownExporter, exportStore *settingsstore.ExportStore) backlite.Queue {
	return backlite.NewQueue(ExportEntriesProcessor(exporter, exportStore))
}
