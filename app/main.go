package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/api"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/cfg"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/collectors"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/render"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/tasks"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Humanoid Robots Monitor", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	wl, err := watchlist.Load(appCfg.WatchlistPath)
	if err != nil {
		slog.Error("Failed to load watchlist", "path", appCfg.WatchlistPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Watchlist loaded", "path", appCfg.WatchlistPath, "entities", len(wl.Entities))

	itemRepo := database.NewItemRepository(db)
	digestRepo := database.NewDigestRepository(db)
	stateRepo := database.NewSiteStateRepository(db)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	lookback := time.Duration(appCfg.LookbackHours) * time.Hour

	newsCollector := collectors.NewNewsCollector(httpClient, appCfg.UserAgent, lookback)
	youtubeCollector := collectors.NewYoutubeCollector(httpClient, appCfg.UserAgent, lookback)
	siteCollector := collectors.NewSiteCollector(httpClient, stateRepo, appCfg.UserAgent, lookback)

	// Watchlist dedupe settings take precedence over the global defaults.
	threshold := appCfg.SimilarityThreshold
	if wl.Dedupe.SimilarityThreshold > 0 {
		threshold = wl.Dedupe.SimilarityThreshold
	}
	policy := digest.NewPolicy(wl.Dedupe.PrimaryDomains)
	deduper := digest.NewDeduplicator(policy, threshold)
	slog.Info("Deduplication configured", "similarity_threshold", threshold)

	renderer, err := render.NewRenderer()
	if err != nil {
		slog.Error("Failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	scheduler := tasks.NewScheduler(wl, newsCollector, youtubeCollector, siteCollector,
		deduper, itemRepo, digestRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount,
		"interval_seconds", appCfg.SchedulerInterval)

	apiHandler := api.NewHandler(itemRepo, digestRepo, deduper, renderer, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Shutdown complete")
}
