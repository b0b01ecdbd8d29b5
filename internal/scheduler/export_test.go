package scheduler

import (
	"context"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/database/settings"
	"github.com/avolkau/daybook/internal/entities"
	"github.com/avolkau/daybook/internal/exporters"
	"github.com/avolkau/daybook/internal/settingsstore"
)

func setupScheduler(t *testing.T) (*ExportScheduler, *settingsstore.ExportStore, func()) {
	t.Setenv("EXPORT_ENABLED", "")
	t.Setenv("EXPORT_DIR", "")
	t.Setenv("EXPORT_SCHEDULE", "")

	dbPath := "./test_scheduler_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.JournalEntry{},
		&entities.Mood{},
		&entities.Tag{},
		&entities.EntryTag{},
		&entities.Setting{},
	))

	exportStore := settingsstore.NewExportStore(settings.NewRepository(db))
	exporter := exporters.NewDatabaseMarkdownExporter(
		entries.NewRepository(db),
		moods.NewRepository(db),
		exportStore,
	)
	scheduler := NewExportScheduler(exporter, exportStore)

	cleanup := func() {
		scheduler.Stop()
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return scheduler, exportStore, cleanup
}

func TestExportScheduler_DisabledDoesNotStart(t *testing.T) {
	scheduler, _, cleanup := setupScheduler(t)
	defer cleanup()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
	assert.Nil(t, scheduler.NextRunTime())
}

func TestExportScheduler_StartStop(t *testing.T) {
	scheduler, exportStore, cleanup := setupScheduler(t)
	defer cleanup()

	require.NoError(t, exportStore.SetEnabled(true))
	require.NoError(t, exportStore.SetDir(t.TempDir()))
	require.NoError(t, exportStore.SetSchedule("0 3 * * *"))

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())
	require.NotNil(t, scheduler.NextRunTime())

	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())
	assert.Nil(t, scheduler.NextRunTime())
}

func TestExportScheduler_InvalidScheduleFailsStart(t *testing.T) {
	scheduler, exportStore, cleanup := setupScheduler(t)
	defer cleanup()

	require.NoError(t, exportStore.SetEnabled(true))
	require.NoError(t, exportStore.SetDir(t.TempDir()))
	// Bypass SetSchedule validation to simulate a bad stored value
	t.Setenv("EXPORT_SCHEDULE", "not a schedule")

	assert.Error(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
}

func TestExportScheduler_RescheduleDoesNotLeakWatchers(t *testing.T) {
	scheduler, exportStore, cleanup := setupScheduler(t)
	defer cleanup()

	require.NoError(t, exportStore.SetEnabled(true))
	require.NoError(t, exportStore.SetDir(t.TempDir()))
	require.NoError(t, exportStore.SetSchedule("0 3 * * *"))

	require.NoError(t, scheduler.Start(context.Background()))
	baseline := runtime.NumGoroutine()

	for i := 0; i < 8; i++ {
		require.NoError(t, scheduler.Reschedule())
	}
	assert.True(t, scheduler.IsRunning())

	scheduler.Stop()

	// Every restart must release its watcher goroutine again
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline+2)
}
