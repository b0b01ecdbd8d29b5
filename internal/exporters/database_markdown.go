package exporters

import (
	"fmt"
	"time"

	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/entities"
)

// DirSource resolves the export target directory at export time, so a
// directory changed through settings takes effect without a restart.
type DirSource interface {
	ExportDir() string
}

// StaticDir is a DirSource with a fixed directory.
type StaticDir string

func (d StaticDir) ExportDir() string { return string(d) }

// DatabaseMarkdownExporter reads entries from the repositories, resolves
// mood and tag names, and hands them to a MarkdownExporter.
type DatabaseMarkdownExporter struct {
	entries *entries.Repository
	moods   *moods.Repository
	dir     DirSource
}

// NewDatabaseMarkdownExporter creates the combined reader + exporter.
func NewDatabaseMarkdownExporter(entriesRepo *entries.Repository, moodsRepo *moods.Repository, dir DirSource) *DatabaseMarkdownExporter {
	return &DatabaseMarkdownExporter{
		entries: entriesRepo,
		moods:   moodsRepo,
		dir:     dir,
	}
}

// ExportRange exports all entries in the inclusive [from, to] date range.
func (e *DatabaseMarkdownExporter) ExportRange(from, to time.Time) (ExportResult, error) {
	all, err := e.entries.Between(from, to)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read entries: %w", err)
	}
	return e.export(all)
}

// ExportAll exports every entry in the store.
func (e *DatabaseMarkdownExporter) ExportAll() (ExportResult, error) {
	all, err := e.entries.All()
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read entries: %w", err)
	}
	return e.export(all)
}

func (e *DatabaseMarkdownExporter) export(all []entities.JournalEntry) (ExportResult, error) {
	exportDir := e.dir.ExportDir()
	if exportDir == "" {
		return ExportResult{}, fmt.Errorf("export directory not configured")
	}

	allMoods, err := e.moods.ListMoods()
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to read moods: %w", err)
	}
	moodNames := make(map[uint]string, len(allMoods))
	for _, m := range allMoods {
		moodNames[m.ID] = m.Name
	}

	docs := make([]EntryDocument, 0, len(all))
	for _, entry := range all {
		tagNames, err := e.entries.TagNamesForEntry(entry.ID)
		if err != nil {
			return ExportResult{}, fmt.Errorf("failed to resolve tags for entry %d: %w", entry.ID, err)
		}
		docs = append(docs, EntryDocument{
			Entry:    entry,
			MoodName: moodNames[entry.PrimaryMoodID],
			TagNames: tagNames,
		})
	}

	return NewMarkdownExporter(exportDir).Export(docs)
}
