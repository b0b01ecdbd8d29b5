// Package scheduler runs the periodic markdown export.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avolkau/daybook/internal/exporters"
	"github.com/avolkau/daybook/internal/settingsstore"
)

// ExportScheduler manages periodic markdown exports of the journal.
type ExportScheduler struct {
	exporter    *exporters.DatabaseMarkdownExporter
	exportStore *settingsstore.ExportStore

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewExportScheduler creates a new scheduler instance.
func NewExportScheduler(exporter *exporters.DatabaseMarkdownExporter, exportStore *settingsstore.ExportStore) *ExportScheduler {
	return &ExportScheduler{
		exporter:    exporter,
		exportStore: exportStore,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the export is enabled and configured.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	config := s.exportStore.GetConfig()

	if !config.Enabled {
		log.Printf("Export scheduler: disabled")
		return nil
	}

	if config.Dir == "" {
		log.Printf("Export scheduler: export directory not configured, skipping")
		return nil
	}

	if err := settingsstore.ValidateCronSchedule(config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(config.Schedule, func() {
		s.runExport()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.NextRunTime(config.Schedule)
	log.Printf("Export scheduler: started with schedule '%s'. Next run: %v", config.Schedule, nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running export to
// finish.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	// Release the watcher goroutine started in Start; without this every
	// Reschedule would leave one blocked on the previous context.
	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Export scheduler: stopped")
}

// Reschedule restarts the scheduler with fresh settings (call after the
// export configuration changes).
func (s *ExportScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// RunNow triggers an immediate export.
func (s *ExportScheduler) RunNow() {
	go s.runExport()
}

// IsRunning returns whether the scheduler is active.
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next export will occur.
func (s *ExportScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ExportScheduler) runExport() {
	config := s.exportStore.GetConfig()

	if !config.Enabled {
		log.Printf("Export: skipped (disabled)")
		return
	}
	if config.Dir == "" {
		log.Printf("Export: skipped (export directory not configured)")
		_ = s.exportStore.SetStatus("failed: export directory not configured")
		return
	}

	log.Printf("Export: starting export to %s", config.Dir)
	startTime := time.Now()

	result, err := s.exporter.ExportAll()
	if err != nil {
		errMsg := fmt.Sprintf("failed: %v", err)
		log.Printf("Export: %s", errMsg)
		_ = s.exportStore.SetStatus(errMsg)
		return
	}

	duration := time.Since(startTime)
	successMsg := fmt.Sprintf("exported %d entries (%d failed) in %v",
		result.EntriesProcessed, result.EntriesFailed, duration.Round(time.Millisecond))
	log.Printf("Export: %s", successMsg)
	_ = s.exportStore.SetStatus(successMsg)
}
