// Package entries provides database operations for journal entries.
//
// The store holds at most one entry per calendar day. SaveOrUpdate is the
// only write path for entries: it creates the row for a new date or copies
// the mutable fields onto the existing row, then rewrites the entry's full
// tag-link set. Multi-row mutations run inside a transaction so a failure
// mid-sequence never leaves links half-rewritten.
package entries

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/avolkau/daybook/internal/database/tags"
	"github.com/avolkau/daybook/internal/entities"
)

// Repository handles all journal entry database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new entries repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByDate retrieves the entry for a calendar date, or nil when no entry
// exists for that day. Absence is not an error; callers must nil-check.
func (r *Repository) GetByDate(date time.Time) (*entities.JournalEntry, error) {
	var entry entities.JournalEntry
	err := r.db.Where("entry_date = ?", entities.DayOf(date)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveOrUpdate creates or updates the entry for entry.EntryDate's calendar
// day and replaces its tag links with the given tag names.
//
// Tag names are trimmed and blanks dropped; remaining names are deduplicated
// case-sensitively, then matched case-insensitively against stored tags.
// Names differing only in case therefore resolve to one tag row but still
// produce one link row each ("Work" and "work" yield two links to the same
// tag). That duplication is long-standing observed behavior and is kept
// rather than silently collapsed.
func (r *Repository) SaveOrUpdate(entry *entities.JournalEntry, tagNames []string) error {
	entry.EntryDate = entities.DayOf(entry.EntryDate)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.JournalEntry
		err := tx.Where("entry_date = ?", entry.EntryDate).First(&existing).Error

		switch {
		case err == nil:
			existing.Title = entry.Title
			existing.Content = entry.Content
			existing.ContentType = entry.ContentType
			existing.PrimaryMoodID = entry.PrimaryMoodID
			existing.SecondaryMood1ID = entry.SecondaryMood1ID
			existing.SecondaryMood2ID = entry.SecondaryMood2ID

			if err := tx.Save(&existing).Error; err != nil {
				return err
			}

			// Full tag-set replacement, not an incremental diff.
			if err := tx.Where("entry_id = ?", existing.ID).Delete(&entities.EntryTag{}).Error; err != nil {
				return err
			}

			*entry = existing

		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(entry).Error; err != nil {
				return err
			}

		default:
			return err
		}

		for _, name := range normalizeTagNames(tagNames) {
			tag, err := tags.GetOrCreate(tx, name)
			if err != nil {
				return err
			}
			link := entities.EntryTag{EntryID: entry.ID, TagID: tag.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the entry for a calendar date along with its tag links.
// Deleting a date that has no entry is a no-op, not an error.
func (r *Repository) Delete(date time.Time) error {
	entry, err := r.GetByDate(date)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&entities.EntryTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.JournalEntry{}, entry.ID).Error
	})
}

// Search returns entries ordered by date descending. An empty or blank
// keyword returns everything; otherwise only entries whose title or content
// contains the keyword are returned (case-insensitive substring match, no
// tokenization or ranking).
func (r *Repository) Search(keyword string) ([]entities.JournalEntry, error) {
	var results []entities.JournalEntry

	keyword = strings.TrimSpace(keyword)
	query := r.db.Order("entry_date DESC")
	if keyword != "" {
		pattern := "%" + escapeLike(keyword) + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) ESCAPE '\\' OR LOWER(content) LIKE LOWER(?) ESCAPE '\\'", pattern, pattern)
	}

	err := query.Find(&results).Error
	return results, err
}

// Between retrieves entries in the inclusive [from, to] date range, ordered
// ascending by date. Both bounds are truncated to day granularity. An
// inverted range simply yields no rows.
func (r *Repository) Between(from, to time.Time) ([]entities.JournalEntry, error) {
	var results []entities.JournalEntry
	err := r.db.
		Where("entry_date >= ? AND entry_date <= ?", entities.DayOf(from), entities.DayOf(to)).
		Order("entry_date ASC").
		Find(&results).Error
	return results, err
}

// All retrieves every entry ordered ascending by date.
func (r *Repository) All() ([]entities.JournalEntry, error) {
	var results []entities.JournalEntry
	err := r.db.Order("entry_date ASC").Find(&results).Error
	return results, err
}

// AllLinks retrieves every entry-tag link row.
func (r *Repository) AllLinks() ([]entities.EntryTag, error) {
	var links []entities.EntryTag
	err := r.db.Find(&links).Error
	return links, err
}

// TagNamesForEntry resolves an entry's tag links to tag names, deduplicated
// by tag id and sorted alphabetically. Entries without links yield an empty
// list.
func (r *Repository) TagNamesForEntry(entryID uint) ([]string, error) {
	names := []string{}
	err := r.db.Model(&entities.Tag{}).
		Where("id IN (?)", r.db.Model(&entities.EntryTag{}).Select("tag_id").Where("entry_id = ?", entryID)).
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

// escapeLike escapes the LIKE metacharacters so the keyword matches as a
// literal substring. Must be paired with ESCAPE '\' in the query.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// normalizeTagNames trims whitespace, drops blank names and deduplicates the
// trimmed strings case-sensitively, preserving first-seen order.
// Case-insensitive collapsing happens later against stored tags.
func normalizeTagNames(tagNames []string) []string {
	seen := make(map[string]bool, len(tagNames))
	normalized := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		normalized = append(normalized, name)
	}
	return normalized
}
