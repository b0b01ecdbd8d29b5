package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/entities"
	"github.com/avolkau/daybook/internal/markdown"
)

const dateLayout = "2006-01-02"

// SaveEntryRequest is the JSON payload for creating or updating the entry
// of a calendar day.
type SaveEntryRequest struct {
	Date             string   `json:"date" binding:"required"`
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	ContentType      string   `json:"content_type"`
	PrimaryMoodID    uint     `json:"primary_mood_id" binding:"required"`
	SecondaryMood1ID *uint    `json:"secondary_mood1_id,omitempty"`
	SecondaryMood2ID *uint    `json:"secondary_mood2_id,omitempty"`
	Tags             []string `json:"tags"`
}

// EntryResponse is an entry with its resolved tag names and, for markdown
// content, the rendered HTML.
type EntryResponse struct {
	entities.JournalEntry
	Tags []string `json:"tags"`
	HTML string   `json:"html,omitempty"`
}

type EntriesController struct {
	entries  *entries.Repository
	renderer *markdown.Renderer
}

func NewEntriesController(entriesRepo *entries.Repository, renderer *markdown.Renderer) *EntriesController {
	return &EntriesController{
		entries:  entriesRepo,
		renderer: renderer,
	}
}

// GetByDate returns the entry for a date, or 404 when the day has none.
func (ctl *EntriesController) GetByDate(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	entry, err := ctl.entries.GetByDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no entry for date"})
		return
	}

	ctl.respondWithEntry(c, *entry)
}

// Save creates or updates the entry for the requested date.
func (ctl *EntriesController) Save(c *gin.Context) {
	var req SaveEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "Markdown"
	}

	entry := entities.JournalEntry{
		EntryDate:        date,
		Title:            req.Title,
		Content:          req.Content,
		ContentType:      contentType,
		PrimaryMoodID:    req.PrimaryMoodID,
		SecondaryMood1ID: req.SecondaryMood1ID,
		SecondaryMood2ID: req.SecondaryMood2ID,
	}

	if err := ctl.entries.SaveOrUpdate(&entry, req.Tags); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctl.respondWithEntry(c, entry)
}

// Delete removes the entry for a date; deleting a date with no entry
// succeeds with no effect.
func (ctl *EntriesController) Delete(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	if err := ctl.entries.Delete(date); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Search returns entries matching the q parameter, newest first; an empty q
// returns the full timeline.
func (ctl *EntriesController) Search(c *gin.Context) {
	results, err := ctl.entries.Search(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": results, "count": len(results)})
}

// Range returns entries between from and to (inclusive), oldest first.
func (ctl *EntriesController) Range(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
		return
	}

	results, err := ctl.entries.Between(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": results, "count": len(results)})
}

func (ctl *EntriesController) respondWithEntry(c *gin.Context, entry entities.JournalEntry) {
	tagNames, err := ctl.entries.TagNamesForEntry(entry.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := EntryResponse{JournalEntry: entry, Tags: tagNames}
	if entry.ContentType == "Markdown" {
		response.HTML = ctl.renderer.ToHTML(entry.Content)
	}

	c.JSON(http.StatusOK, response)
}

func parseDateParam(c *gin.Context) (time.Time, bool) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}
