package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/daybook/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_tags_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Tag{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_GetOrCreateTag_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	tag, err := repo.GetOrCreateTag("gardening")

	require.NoError(t, err)
	assert.NotZero(t, tag.ID)
	assert.Equal(t, "gardening", tag.Name)
	assert.False(t, tag.IsPredefined)
}

func TestRepository_GetOrCreateTag_Existing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	tag1, err := repo.GetOrCreateTag("reading")
	require.NoError(t, err)

	tag2, err := repo.GetOrCreateTag("reading")
	require.NoError(t, err)
	assert.Equal(t, tag1.ID, tag2.ID)
}

func TestRepository_GetOrCreateTag_CaseInsensitive(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	tag1, err := repo.GetOrCreateTag("Work")
	require.NoError(t, err)

	// Should find existing despite different case, keeping the stored name
	tag2, err := repo.GetOrCreateTag("work")
	require.NoError(t, err)
	assert.Equal(t, tag1.ID, tag2.ID)
	assert.Equal(t, "Work", tag2.Name)
}

func TestRepository_ListTags_OrderedByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, name := range []string{"Travel", "Fitness", "Study"} {
		_, err := repo.GetOrCreateTag(name)
		require.NoError(t, err)
	}

	tags, err := repo.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "Fitness", tags[0].Name)
	assert.Equal(t, "Study", tags[1].Name)
	assert.Equal(t, "Travel", tags[2].Name)
}

func TestRepository_GetTagByID_Missing(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetTagByID(42)
	assert.Error(t, err)
}
