package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/scheduler"
	"github.com/avolkau/daybook/internal/settingsstore"
	"github.com/avolkau/daybook/internal/tasks"
)

// SettingsController serves the theme preference and the markdown export
// configuration.
type SettingsController struct {
	theme      *settingsstore.ThemeStore
	export     *settingsstore.ExportStore
	scheduler  *scheduler.ExportScheduler
	taskClient *tasks.Client // nil when the task queue is disabled
}

func NewSettingsController(theme *settingsstore.ThemeStore, export *settingsstore.ExportStore, sched *scheduler.ExportScheduler, taskClient *tasks.Client) *SettingsController {
	return &SettingsController{
		theme:      theme,
		export:     export,
		scheduler:  sched,
		taskClient: taskClient,
	}
}

// GetTheme returns the current theme and its CSS class.
func (ctl *SettingsController) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"theme":     ctl.theme.Current(),
		"css_class": ctl.theme.CSSClass(),
	})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SetTheme persists the theme preference.
func (ctl *SettingsController) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.theme.Set(req.Theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": ctl.theme.Current()})
}

// GetExportSettings returns the effective export configuration and the
// last run status.
func (ctl *SettingsController) GetExportSettings(c *gin.Context) {
	status, err := ctl.export.GetStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"config": ctl.export.GetConfig(),
		"status": status,
	}
	if next := ctl.scheduler.NextRunTime(); next != nil {
		response["next_run_at"] = next
	}

	c.JSON(http.StatusOK, response)
}

type exportSettingsRequest struct {
	Enabled  *bool   `json:"enabled,omitempty"`
	Dir      *string `json:"dir,omitempty"`
	Schedule *string `json:"schedule,omitempty"`
}

// UpdateExportSettings saves any provided export fields and reschedules
// the periodic export.
func (ctl *SettingsController) UpdateExportSettings(c *gin.Context) {
	var req exportSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Enabled != nil {
		if err := ctl.export.SetEnabled(*req.Enabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Dir != nil {
		if err := ctl.export.SetDir(*req.Dir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Schedule != nil {
		if err := ctl.export.SetSchedule(*req.Schedule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := ctl.scheduler.Reschedule(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctl.GetExportSettings(c)
}

type triggerExportRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// TriggerExport enqueues a one-off export task; with no range it exports
// the full journal.
func (ctl *SettingsController) TriggerExport(c *gin.Context) {
	if ctl.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue disabled"})
		return
	}

	var req triggerExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := tasks.ExportEntriesTask{From: req.From, To: req.To}
	if _, err := ctl.taskClient.Add(task).Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
