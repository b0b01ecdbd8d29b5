// Package exporters writes journal entries out as markdown files, one file
// per entry day, for use in external note vaults.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avolkau/daybook/internal/entities"
)

// ExportResult summarizes an export run.
type ExportResult struct {
	EntriesProcessed int `json:"entries_processed"`
	EntriesFailed    int `json:"entries_failed"`
}

// EntryDocument is one entry with its resolved mood and tag names, ready
// for rendering.
type EntryDocument struct {
	Entry    entities.JournalEntry
	MoodName string
	TagNames []string
}

// MarkdownExporter renders entry documents into an export directory.
type MarkdownExporter struct {
	ExportDir string
}

// NewMarkdownExporter creates an exporter targeting the given directory.
func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{ExportDir: exportDir}
}

// Export writes one markdown file per entry, named after the entry date.
// Individual file failures are counted, not fatal.
func (e *MarkdownExporter) Export(docs []EntryDocument) (ExportResult, error) {
	result := ExportResult{}

	if err := os.MkdirAll(e.ExportDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, doc := range docs {
		outputPath := filepath.Join(e.ExportDir, doc.Entry.EntryDate.Format("2006-01-02")+".md")
		if err := os.WriteFile(outputPath, []byte(GenerateMarkdown(doc)), 0644); err != nil {
			result.EntriesFailed++
			continue
		}
		result.EntriesProcessed++
	}

	return result, nil
}

// GenerateMarkdown renders a single entry with a front-matter header.
func GenerateMarkdown(doc EntryDocument) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "date: %s\n", doc.Entry.EntryDate.Format("2006-01-02"))
	fmt.Fprintf(&builder, "title: \"%s\"\n", strings.ReplaceAll(doc.Entry.Title, "\"", "\\\""))
	if doc.MoodName != "" {
		fmt.Fprintf(&builder, "mood: %s\n", doc.MoodName)
	}
	if len(doc.TagNames) > 0 {
		fmt.Fprintf(&builder, "tags: %s\n", strings.Join(doc.TagNames, ", "))
	}
	fmt.Fprintf(&builder, "created_at: %s\n", doc.Entry.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&builder, "---\n\n")

	if doc.Entry.Title != "" {
		fmt.Fprintf(&builder, "# %s\n\n", doc.Entry.Title)
	}
	fmt.Fprintf(&builder, "%s\n", doc.Entry.Content)

	return builder.String()
}
