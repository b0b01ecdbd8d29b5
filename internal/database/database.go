package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/daybook/internal/entities"
)

var defaultMoods = []entities.Mood{
	{Name: "Happy", Type: entities.MoodTypePositive},
	{Name: "Excited", Type: entities.MoodTypePositive},
	{Name: "Calm", Type: entities.MoodTypeNeutral},
	{Name: "Okay", Type: entities.MoodTypeNeutral},
	{Name: "Sad", Type: entities.MoodTypeNegative},
	{Name: "Angry", Type: entities.MoodTypeNegative},
}

var defaultTags = []entities.Tag{
	{Name: "Work", IsPredefined: true},
	{Name: "Study", IsPredefined: true},
	{Name: "Health", IsPredefined: true},
	{Name: "Travel", IsPredefined: true},
	{Name: "Fitness", IsPredefined: true},
	{Name: "Family", IsPredefined: true},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the store at dbPath, migrates the schema and seeds
// reference data. Opening is done once at process startup, so concurrent
// first callers never race on schema creation.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.JournalEntry{},
		&entities.Mood{},
		&entities.Tag{},
		&entities.EntryTag{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedReferenceData(); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedReferenceData inserts the default moods and predefined tags, but only
// into empty tables. An already-seeded store is never touched again, even if
// rows were renamed or removed out of band.
func (d *Database) seedReferenceData() error {
	var moodCount int64
	if err := d.DB.Model(&entities.Mood{}).Count(&moodCount).Error; err != nil {
		return err
	}
	if moodCount == 0 {
		for _, mood := range defaultMoods {
			if err := d.DB.Create(&mood).Error; err != nil {
				return fmt.Errorf("failed to seed mood %s: %w", mood.Name, err)
			}
		}
		log.Printf("Seeded %d default moods", len(defaultMoods))
	}

	var tagCount int64
	if err := d.DB.Model(&entities.Tag{}).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount == 0 {
		for _, tag := range defaultTags {
			if err := d.DB.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to seed tag %s: %w", tag.Name, err)
			}
		}
		log.Printf("Seeded %d predefined tags", len(defaultTags))
	}

	return nil
}
