package exporters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/entities"
)

func setupExporter(t *testing.T, dir DirSource) (*DatabaseMarkdownExporter, *entries.Repository, *gorm.DB, func()) {
	dbPath := "./test_exporter_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.JournalEntry{},
		&entities.Mood{},
		&entities.Tag{},
		&entities.EntryTag{},
	))

	happy := entities.Mood{Name: "Happy", Type: entities.MoodTypePositive}
	require.NoError(t, db.Create(&happy).Error)

	entriesRepo := entries.NewRepository(db)
	exporter := NewDatabaseMarkdownExporter(entriesRepo, moods.NewRepository(db), dir)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return exporter, entriesRepo, db, cleanup
}

func TestDatabaseMarkdownExporter_ExportAll(t *testing.T) {
	dir := t.TempDir()
	exporter, repo, _, cleanup := setupExporter(t, StaticDir(dir))
	defer cleanup()

	for day := 10; day <= 12; day++ {
		entry := &entities.JournalEntry{
			EntryDate:     time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Title:         "Entry",
			Content:       "Content",
			PrimaryMoodID: 1,
		}
		require.NoError(t, repo.SaveOrUpdate(entry, []string{"Work"}))
	}

	result, err := exporter.ExportAll()
	require.NoError(t, err)
	assert.Equal(t, 3, result.EntriesProcessed)
	assert.Equal(t, 0, result.EntriesFailed)

	content, err := os.ReadFile(filepath.Join(dir, "2026-03-11.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "mood: Happy")
	assert.Contains(t, string(content), "tags: Work")
}

func TestDatabaseMarkdownExporter_ExportRange(t *testing.T) {
	dir := t.TempDir()
	exporter, repo, _, cleanup := setupExporter(t, StaticDir(dir))
	defer cleanup()

	for day := 10; day <= 14; day++ {
		entry := &entities.JournalEntry{
			EntryDate:     time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			PrimaryMoodID: 1,
		}
		require.NoError(t, repo.SaveOrUpdate(entry, nil))
	}

	result, err := exporter.ExportRange(
		time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result.EntriesProcessed)

	_, err = os.Stat(filepath.Join(dir, "2026-03-10.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestDatabaseMarkdownExporter_UnconfiguredDirectory(t *testing.T) {
	exporter, repo, _, cleanup := setupExporter(t, StaticDir(""))
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(entry, nil))

	_, err := exporter.ExportAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
