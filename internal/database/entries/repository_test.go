package entries

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/daybook/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_entries_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.JournalEntry{},
		&entities.Mood{},
		&entities.Tag{},
		&entities.EntryTag{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_SaveOrUpdate_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		Title:         "First entry",
		Content:       "Some thoughts",
		PrimaryMoodID: 1,
	}

	err := repo.SaveOrUpdate(entry, []string{"Work"})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	stored, err := repo.GetByDate(day(2026, 3, 10))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "First entry", stored.Title)
}

func TestRepository_SaveOrUpdate_TruncatesDate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     time.Date(2026, 3, 10, 22, 15, 30, 0, time.UTC),
		Title:         "Late night",
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(entry, nil))

	stored, err := repo.GetByDate(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Late night", stored.Title)
}

func TestRepository_SaveOrUpdate_UpdatesExistingDay(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	first := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		Title:         "Morning",
		Content:       "Draft",
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(first, []string{"Work"}))

	time.Sleep(20 * time.Millisecond)

	second := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		Title:         "Evening",
		Content:       "Final",
		PrimaryMoodID: 2,
	}
	require.NoError(t, repo.SaveOrUpdate(second, []string{"Family"}))

	// Same row is reused, not replaced
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&entities.JournalEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByDate(day(2026, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, "Evening", stored.Title)
	assert.Equal(t, uint(2), stored.PrimaryMoodID)

	// Re-saving keeps the original creation time but refreshes the update time
	assert.True(t, stored.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, stored.UpdatedAt.After(first.UpdatedAt))

	// Tag links are fully replaced
	names, err := repo.TagNamesForEntry(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Family"}, names)
}

func TestRepository_SaveOrUpdate_CaseVariantsShareOneTag(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		Title:         "Busy day",
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(entry, []string{"Work", "work"}))

	// One tag row, but one link per submitted name variant
	var tagCount int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(1), tagCount)

	links, err := repo.AllLinks()
	require.NoError(t, err)
	assert.Len(t, links, 2)

	names, err := repo.TagNamesForEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Work"}, names)
}

func TestRepository_SaveOrUpdate_NormalizesTagNames(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(entry, []string{" Travel ", "", "Travel", "   "}))

	links, err := repo.AllLinks()
	require.NoError(t, err)
	assert.Len(t, links, 1)

	names, err := repo.TagNamesForEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Travel"}, names)
}

func TestRepository_GetByDate_Missing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry, err := repo.GetByDate(day(2026, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRepository_Delete(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{
		EntryDate:     day(2026, 3, 10),
		PrimaryMoodID: 1,
	}
	require.NoError(t, repo.SaveOrUpdate(entry, []string{"Health"}))

	require.NoError(t, repo.Delete(day(2026, 3, 10)))

	stored, err := repo.GetByDate(day(2026, 3, 10))
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Links go with the entry
	links, err := repo.AllLinks()
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestRepository_Delete_MissingIsNoop(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(day(2026, 1, 1))
	assert.NoError(t, err)
}

func TestRepository_Search_EmptyKeywordReturnsAllDescending(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, d := range []int{10, 12, 11} {
		entry := &entities.JournalEntry{EntryDate: day(2026, 3, d), Title: "entry", PrimaryMoodID: 1}
		require.NoError(t, repo.SaveOrUpdate(entry, nil))
	}

	results, err := repo.Search("   ")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, day(2026, 3, 12), results[0].EntryDate)
	assert.Equal(t, day(2026, 3, 10), results[2].EntryDate)
}

func TestRepository_Search_MatchesTitleAndContentCaseInsensitive(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	one := &entities.JournalEntry{EntryDate: day(2026, 3, 10), Title: "Trip to Lisbon", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(one, nil))
	two := &entities.JournalEntry{EntryDate: day(2026, 3, 11), Title: "Quiet day", Content: "planning the LISBON itinerary", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(two, nil))
	three := &entities.JournalEntry{EntryDate: day(2026, 3, 12), Title: "Groceries", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(three, nil))

	results, err := repo.Search("lisbon")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRepository_Search_MetacharactersMatchLiterally(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	one := &entities.JournalEntry{EntryDate: day(2026, 3, 10), Title: "progress 50x50 grid", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(one, nil))
	two := &entities.JournalEntry{EntryDate: day(2026, 3, 11), Title: "ratio 50_50 split", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(two, nil))
	three := &entities.JournalEntry{EntryDate: day(2026, 3, 12), Title: "battery at 100% again", PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(three, nil))

	// Underscore is a literal character, not a single-character wildcard
	results, err := repo.Search("50_50")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ratio 50_50 split", results[0].Title)

	// Percent is a literal character, not a multi-character wildcard
	results, err = repo.Search("100%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "battery at 100% again", results[0].Title)

	results, err = repo.Search("%50")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRepository_Between_InclusiveAscending(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, d := range []int{9, 10, 11, 12, 13} {
		entry := &entities.JournalEntry{EntryDate: day(2026, 3, d), PrimaryMoodID: 1}
		require.NoError(t, repo.SaveOrUpdate(entry, nil))
	}

	results, err := repo.Between(day(2026, 3, 10), day(2026, 3, 12))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, day(2026, 3, 10), results[0].EntryDate)
	assert.Equal(t, day(2026, 3, 12), results[2].EntryDate)
}

func TestRepository_Between_InvertedRangeIsEmpty(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{EntryDate: day(2026, 3, 10), PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(entry, nil))

	results, err := repo.Between(day(2026, 3, 12), day(2026, 3, 10))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRepository_TagNamesForEntry_SortedAlphabetically(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	entry := &entities.JournalEntry{EntryDate: day(2026, 3, 10), PrimaryMoodID: 1}
	require.NoError(t, repo.SaveOrUpdate(entry, []string{"Travel", "Fitness", "Study"}))

	names, err := repo.TagNamesForEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fitness", "Study", "Travel"}, names)
}
