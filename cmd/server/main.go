// Package main is the entry point for the transcript viewer server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/database"
	"github.com/Shimizu-Technology/transcript-viewer/internal/middleware"
	"github.com/Shimizu-Technology/transcript-viewer/internal/router"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/analytics"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/preferences"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Transcript Viewer %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, rate_limit=%d/min", cfg.Port, cfg.GinMode, cfg.RateLimit)
	if cfg.APIOrigin != "" {
		log.Printf("🔧 Relative API endpoints resolve against %s", cfg.APIOrigin)
	}

	os.Setenv("GIN_MODE", cfg.GinMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Step 2: Preference storage (PostgreSQL when configured)
	var store preferences.Store
	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("✅ Database connected")

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		store = db
	} else {
		log.Println("⚠️  No DATABASE_URL set; preferences are kept in memory")
	}

	// Step 3: Analytics
	var tracker analytics.Tracker = analytics.Nop{}
	if cfg.AnalyticsURL != "" {
		svc := analytics.New(cfg.AnalyticsURL, cfg.AnalyticsSecret, analytics.Options{})
		svc.Start()
		defer svc.Stop()
		tracker = svc
	} else {
		log.Println("ℹ️  Analytics disabled (set ANALYTICS_URL to enable)")
	}

	prefs := preferences.NewService(store, tracker)

	// Step 4: Per-visitor controllers and rate limiting
	sessions := workflow.NewRegistry(cfg.SessionTTL, workflow.NewFactory(cfg.APIOrigin, cfg.HTTPTimeout, tracker))
	go sessions.Run(ctx, time.Minute)

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx)

	// Step 5: Setup HTTP Router
	r := router.Setup(cfg, sessions, prefs, limiter)

	// Step 6: Start the HTTP Server
	// A lookup is two backend calls, so the write timeout covers both.
	// No backend timeout means no write timeout either.
	writeTimeout := time.Duration(0)
	if cfg.HTTPTimeout > 0 {
		writeTimeout = 2*cfg.HTTPTimeout + 10*time.Second
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
