package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/database/tags"
)

// LookupsController serves the mood and tag reference lists used to
// populate entry forms.
type LookupsController struct {
	moods *moods.Repository
	tags  *tags.Repository
}

func NewLookupsController(moodsRepo *moods.Repository, tagsRepo *tags.Repository) *LookupsController {
	return &LookupsController{moods: moodsRepo, tags: tagsRepo}
}

// Moods returns all moods ordered by type, then name.
func (ctl *LookupsController) Moods(c *gin.Context) {
	result, err := ctl.moods.ListMoods()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"moods": result})
}

// Tags returns all tags ordered by name.
func (ctl *LookupsController) Tags(c *gin.Context) {
	result, err := ctl.tags.ListTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": result})
}
