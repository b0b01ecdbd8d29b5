package entities

import "time"

type MoodType string

const (
	MoodTypePositive MoodType = "Positive"
	MoodTypeNeutral  MoodType = "Neutral"
	MoodTypeNegative MoodType = "Negative"
)

// Mood is reference data seeded once at first startup. User code never
// creates or modifies moods after the seed.
type Mood struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Type      MoodType  `gorm:"size:20;default:'Neutral'" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry holds one journal record per calendar day. EntryDate is
// always truncated to day granularity before it reaches the database, and
// the unique index enforces the one-entry-per-day invariant.
type JournalEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EntryDate   time.Time `gorm:"uniqueIndex" json:"entry_date"`
	Title       string    `gorm:"size:512" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	ContentType string    `gorm:"size:50;default:'Markdown'" json:"content_type"`

	// Only the primary mood participates in dashboard distributions.
	PrimaryMoodID    uint  `gorm:"index" json:"primary_mood_id"`
	SecondaryMood1ID *uint `json:"secondary_mood1_id,omitempty"`
	SecondaryMood2ID *uint `json:"secondary_mood2_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex;size:100" json:"name"`
	IsPredefined bool      `gorm:"default:false" json:"is_predefined"`
	CreatedAt    time.Time `json:"created_at"`
}

// EntryTag links entries to tags. There is deliberately no uniqueness
// constraint on (entry_id, tag_id): the writer replaces an entry's full
// link set on every save and performs its own dedup beforehand.
type EntryTag struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EntryID uint `gorm:"index" json:"entry_id"`
	TagID   uint `gorm:"index" json:"tag_id"`
}

func (Mood) TableName() string {
	return "moods"
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

func (Tag) TableName() string {
	return "tags"
}

func (EntryTag) TableName() string {
	return "entry_tags"
}

// DayOf truncates a timestamp to day granularity in UTC. All entry date
// lookups and writes go through this so that equality comparisons against
// the stored entry_date column are exact.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
