// Package main provides the viewgate server entry point. It hosts the
// visitor portal API, the admin API and the portal assets in one process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang/glog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hotspotlabs/viewgate/pkg/areas"
	"github.com/hotspotlabs/viewgate/pkg/audit"
	"github.com/hotspotlabs/viewgate/pkg/directory"
	"github.com/hotspotlabs/viewgate/pkg/server"
)

func main() {
	var (
		listenAddr   string
		staticDir    string
		databaseType string
		databaseDSN  string
		areasMode    string
	)

	cfg := server.ConfigFromEnv()

	flag.StringVar(&listenAddr, "listen", cfg.Listen, "Address to listen on")
	flag.StringVar(&staticDir, "static", cfg.StaticDir, "Directory with portal assets")
	flag.StringVar(&databaseType, "db-type", "", "Database type (sqlite, postgres or mysql)")
	flag.StringVar(&databaseDSN, "db-dsn", "", "Database connection string")
	flag.StringVar(&areasMode, "areas-mode", "", "Area directory mode (history or directory)")
	flag.Parse()

	cfg.Listen = listenAddr
	cfg.StaticDir = staticDir

	// Initialize glog for backwards compatibility
	_ = flag.Set("logtostderr", "true")

	// Set up structured logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting viewgate server",
		"listen", cfg.Listen,
		"static", cfg.StaticDir,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Setup database
	gormDB, err := setupDatabase(databaseType, databaseDSN)
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	serverOpts := []server.ServerOption{server.WithLogger(logger)}

	// Select the area directory backend.
	areasCfg := areas.ConfigFromEnv()
	if areasMode != "" {
		areasCfg.Mode = areasMode
	}
	switch areasCfg.Mode {
	case areas.ModeDirectory:
		dirCfg := directory.ConfigFromEnv()
		if !dirCfg.Configured() {
			glog.Fatalf("Areas mode %q requires VIEWGATE_DIRECTORY_URL, _CLIENT_KEY and _CLIENT_SECRET", areasCfg.Mode)
		}
		var areaDir areas.Directory = areas.NewExternalDirectory(directory.NewClient(dirCfg))
		if areasCfg.CacheTTL > 0 {
			areaDir = areas.NewCachedDirectory(areaDir, areasCfg.CacheTTL)
		}
		serverOpts = append(serverOpts, server.WithAreaDirectory(areaDir))
		logger.Info("using external area directory",
			"url", dirCfg.BaseURL, "cacheTTL", areasCfg.CacheTTL.String())
	case areas.ModeHistory:
		logger.Info("using history-backed area directory")
	default:
		glog.Fatalf("Unknown areas mode: %q (expected history or directory)", areasCfg.Mode)
	}

	srv := server.NewServer(gormDB, cfg, serverOpts...)

	if err := srv.Migrate(); err != nil {
		glog.Fatalf("Failed to migrate database schema: %v", err)
	}

	router := srv.MountRoutes()

	// Prune old audit events in the background.
	if srv.AuditConfig().Enabled {
		retention := audit.NewRetentionWorker(srv.AuditStore(), srv.AuditConfig().RetentionDays, logger)
		go retention.Run(ctx)
	}

	logger.Info("viewgate server ready", "listen", cfg.Listen)

	// Create HTTP server with graceful shutdown
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	// Start HTTP server in goroutine
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			glog.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	logger.Info("shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("viewgate server stopped")
}

func setupDatabase(dbType, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_DSN")
		if dsn == "" {
			return nil, fmt.Errorf("database DSN is required (use -db-dsn flag or DATABASE_DSN environment variable)")
		}
	}

	if dbType == "" {
		dbType = os.Getenv("DATABASE_TYPE")
		if dbType == "" {
			dbType = "sqlite"
		}
	}

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q (expected sqlite, postgres or mysql)", dbType)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return gormDB, nil
}
