package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"hangiplatform/api"
	"hangiplatform/config"
	"hangiplatform/handlers"
	"hangiplatform/internal/database"
	"hangiplatform/internal/scrape"
	"hangiplatform/services/schedule"
	"hangiplatform/services/scheduler"
	"hangiplatform/services/slug"
	"hangiplatform/services/tmdb"
	"hangiplatform/services/trailers"
	"hangiplatform/services/tvplus"
	"hangiplatform/utils"
)

const trailerCacheTTL = 15 * time.Minute

func main() {
	settingsPath := flag.String("config", "settings.json", "path to settings.json")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.Fatalf("[main] %v", err)
	}
	mgr := config.NewManager(*settingsPath)
	if created, err := mgr.EnsureFile(); err != nil {
		log.Printf("[main] could not write default settings: %v", err)
	} else if created {
		log.Printf("[main] wrote default settings to %s", mgr.Path())
	}
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("[main] load settings: %v", err)
	}
	closeLog := setupLogging(settings.Logging)
	defer closeLog()

	if settings.TMDB.APIKey == "" {
		log.Printf("[main] TMDB api key is not set; catalog endpoints will fail")
	}

	db, err := database.NewDB(database.Config{DatabasePath: settings.DatabasePath()})
	if err != nil {
		log.Fatalf("[main] open database: %v", err)
	}
	defer db.Close()

	client := tmdb.NewClient(tmdb.Config{
		APIKey:       settings.TMDB.APIKey,
		BaseURL:      settings.TMDB.BaseURL,
		ImageBaseURL: settings.TMDB.ImageBaseURL,
		Language:     settings.TMDB.Language,
		Region:       settings.TMDB.Region,
		Timeout:      time.Duration(settings.TMDB.TimeoutSeconds) * time.Second,
		CacheDir:     settings.CacheDir(),
		CacheTTL:     time.Duration(settings.TMDB.CacheTTLHours) * time.Hour,
		Fs:           afero.NewOsFs(),
	})

	loc := settings.Location()
	cacheTTL := time.Duration(settings.Schedule.CacheMinutes) * time.Minute
	fetcher := scrape.NewFetcher(&http.Client{Timeout: 15 * time.Second}, settings.Schedule.UserAgent).
		WithRetry(uint(settings.Schedule.FetchAttempts), 500*time.Millisecond)
	scheduleSvc := schedule.NewService(settings.Schedule.TVYayinAkisiBaseURL, fetcher,
		scrape.NewCache("tvyayinakisi", cacheTTL, db.Snapshots, loc))
	tvplusSvc := tvplus.NewService(settings.Schedule.TVPlusBaseURL, fetcher,
		scrape.NewCache("tvplus", cacheTTL, db.Snapshots, loc))

	refresher, err := scheduler.NewService(settings.Schedule.RefreshCron, loc, 5*time.Minute,
		scheduler.Task{Name: "tvyayinakisi-refresh", Run: scheduleSvc.Refresh},
		scheduler.Task{Name: "tvplus-refresh", Run: tvplusSvc.Refresh},
		scheduler.Task{Name: "tmdb-cache-prune", Run: client.PruneCache},
	)
	if err != nil {
		log.Fatalf("[main] scheduler: %v", err)
	}

	router := utils.NewRouter(settings.Server.AllowedOrigins)
	api.RegisterRoutes(router, api.Handlers{
		Catalog:  handlers.NewCatalogHandler(client),
		Details:  handlers.NewDetailsBundleHandler(client),
		Slug:     handlers.NewSlugHandler(slug.NewResolver(client, db.Slugs)),
		Schedule: handlers.NewScheduleHandler(scheduleSvc, tvplusSvc),
		Trailers: handlers.NewTrailersHandler(trailers.NewService(client, trailerCacheTTL)),
		Tasks:    handlers.NewTasksHandler(refresher),
		Version:  handlers.NewVersionHandler(),
	}, api.NewPerMinuteLimiter(settings.Server.RateLimitPerMinute, settings.Server.RateLimitBurst))

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := refresher.Start(ctx, true); err != nil {
		log.Fatalf("[main] start scheduler: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[main] hangiplatform %s listening on %s", handlers.BackendVersion(), srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Printf("[main] shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Printf("[main] server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] http shutdown: %v", err)
	}
	if err := refresher.Stop(shutdownCtx); err != nil {
		log.Printf("[main] scheduler shutdown: %v", err)
	}
}

// setupLogging tees the standard logger into a rotated file when one is set.
func setupLogging(cfg config.LoggingSettings) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		return func() {}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		log.Printf("[main] log dir: %v; logging to stderr only", err)
		return func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return func() {
		log.SetOutput(os.Stderr)
		_ = rotator.Close()
	}
}
