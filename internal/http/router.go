// Package http wires the JSON API: journal entries, analytics, lookups,
// settings and the PIN gate.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/analytics"
	"github.com/avolkau/daybook/internal/auth"
	"github.com/avolkau/daybook/internal/database"
	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/database/tags"
	"github.com/avolkau/daybook/internal/markdown"
	"github.com/avolkau/daybook/internal/scheduler"
	"github.com/avolkau/daybook/internal/settingsstore"
	"github.com/avolkau/daybook/internal/tasks"
)

// RouterConfig receives all router dependencies, keeping NewRouter's
// signature stable and the wiring testable.
type RouterConfig struct {
	Database  *database.Database
	Entries   *entries.Repository
	Moods     *moods.Repository
	Tags      *tags.Repository
	Analytics *analytics.Service
	Renderer  *markdown.Renderer

	PinService     *auth.Service
	SessionManager *auth.SessionManager
	GateMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	Theme       *settingsstore.ThemeStore
	ExportStore *settingsstore.ExportStore
	Scheduler   *scheduler.ExportScheduler
	TaskClient  *tasks.Client

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before the session middleware so the session context
	// is layered on top of CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	router.Use(cfg.SessionManager.SessionLoadSave())
	router.Use(cfg.GateMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	entriesController := NewEntriesController(cfg.Entries, cfg.Renderer)
	dashboardController := NewDashboardController(cfg.Analytics)
	lookupsController := NewLookupsController(cfg.Moods, cfg.Tags)
	unlockController := NewUnlockController(cfg.PinService, cfg.SessionManager)
	settingsController := NewSettingsController(cfg.Theme, cfg.ExportStore, cfg.Scheduler, cfg.TaskClient)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/pin/status", unlockController.Status)
		api.POST("/pin", unlockController.SetPIN)
		api.POST("/unlock", unlockController.Unlock)
		api.POST("/lock", unlockController.Lock)

		api.GET("/moods", lookupsController.Moods)
		api.GET("/tags", lookupsController.Tags)

		api.GET("/entries", entriesController.Search)
		api.POST("/entries", entriesController.Save)
		api.GET("/entries/range", entriesController.Range)
		api.GET("/entries/:date", entriesController.GetByDate)
		api.DELETE("/entries/:date", entriesController.Delete)

		api.GET("/dashboard", dashboardController.Dashboard)
		api.GET("/streak", dashboardController.Streak)

		api.GET("/theme", settingsController.GetTheme)
		api.PUT("/theme", settingsController.SetTheme)

		api.GET("/settings/export", settingsController.GetExportSettings)
		api.PUT("/settings/export", settingsController.UpdateExportSettings)
		api.POST("/export", settingsController.TriggerExport)
	}

	return router
}
