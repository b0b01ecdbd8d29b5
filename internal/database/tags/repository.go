// Package tags provides database operations for tag management.
//
// Tag names are unique ignoring case: looking up "work" finds an existing
// "Work" row instead of creating a duplicate. Tags are created lazily on
// first use and never deleted.
package tags

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avolkau/daybook/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListTags retrieves all tags ordered by name.
func (r *Repository) ListTags() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetTagByID retrieves a tag by ID.
func (r *Repository) GetTagByID(id uint) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetOrCreateTag retrieves or creates a tag by name (case-insensitive).
// Tags created this way are never predefined.
func (r *Repository) GetOrCreateTag(name string) (*entities.Tag, error) {
	return GetOrCreate(r.db, name)
}

// GetOrCreate is the transaction-friendly form of GetOrCreateTag: callers
// running inside a gorm transaction pass their tx handle so tag creation
// participates in the surrounding write.
func GetOrCreate(db *gorm.DB, name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = entities.Tag{Name: name, IsPredefined: false}
		if err := db.Create(&tag).Error; err != nil {
			return nil, err
		}
		return &tag, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
