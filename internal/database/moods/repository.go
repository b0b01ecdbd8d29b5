// Package moods provides read access to the seeded mood reference data.
package moods

import (
	"gorm.io/gorm"

	"github.com/avolkau/daybook/internal/entities"
)

// Repository handles mood database operations. Moods are immutable
// reference data, so only reads are exposed.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new moods repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMoods retrieves all moods ordered by type, then name.
func (r *Repository) ListMoods() ([]entities.Mood, error) {
	var moods []entities.Mood
	err := r.db.Order("type ASC, name ASC").Find(&moods).Error
	return moods, err
}

// GetMoodByID retrieves a mood by ID.
func (r *Repository) GetMoodByID(id uint) (*entities.Mood, error) {
	var mood entities.Mood
	err := r.db.First(&mood, id).Error
	if err != nil {
		return nil, err
	}
	return &mood, nil
}
