// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/analytics"
	"github.com/avolkau/daybook/internal/auth"
	"github.com/avolkau/daybook/internal/config"
	"github.com/avolkau/daybook/internal/database"
	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/database/settings"
	"github.com/avolkau/daybook/internal/database/tags"
	"github.com/avolkau/daybook/internal/exporters"
	http_controllers "github.com/avolkau/daybook/internal/http"
	"github.com/avolkau/daybook/internal/markdown"
	"github.com/avolkau/daybook/internal/scheduler"
	"github.com/avolkau/daybook/internal/settingsstore"
	"github.com/avolkau/daybook/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run initializes every component and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Daybook v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	entriesRepo := entries.NewRepository(db.DB)
	moodsRepo := moods.NewRepository(db.DB)
	tagsRepo := tags.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)

	analyticsService := analytics.NewService(entriesRepo, moodsRepo, tagsRepo)
	renderer := markdown.NewRenderer()

	themeStore := settingsstore.NewThemeStore(settingsRepo)
	if err := themeStore.Load(); err != nil {
		log.Printf("WARNING: Failed to load theme preference: %v", err)
	}

	// The export store doubles as the exporter's directory source so a
	// directory changed through settings applies on the next run.
	exportStore := settingsstore.NewExportStore(settingsRepo)
	exporter := exporters.NewDatabaseMarkdownExporter(entriesRepo, moodsRepo, exportStore)

	pinService := auth.NewService(settingsRepo, cfg.Auth.PinIterations)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	gateMiddleware := auth.NewMiddleware(pinService, sessionManager)

	var csrfSecret []byte
	if cfg.Auth.CSRFSecret != "" {
		csrfSecret = []byte(cfg.Auth.CSRFSecret)
	} else {
		log.Printf("WARNING: CSRF protection disabled. Set 'AUTH_CSRF_SECRET' to enable.")
	}

	exportScheduler := scheduler.NewExportScheduler(exporter, exportStore)
	if err := exportScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: Failed to start export scheduler: %v", err)
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewExportEntriesQueue(exporter, exportStore))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Entries:        entriesRepo,
		Moods:          moodsRepo,
		Tags:           tagsRepo,
		Analytics:      analyticsService,
		Renderer:       renderer,
		PinService:     pinService,
		SessionManager: sessionManager,
		GateMiddleware: gateMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Theme:          themeStore,
		ExportStore:    exportStore,
		Scheduler:      exportScheduler,
		TaskClient:     taskClient,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		exportScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
