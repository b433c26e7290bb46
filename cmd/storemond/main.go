package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"store-monitor-backend/config"
	"store-monitor-backend/internal/api"
	"store-monitor-backend/internal/db"
	"store-monitor-backend/internal/jobs"
	"store-monitor-backend/internal/loader"
	"store-monitor-backend/internal/report"
	"store-monitor-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "store-monitor ", log.LstdFlags)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Printf("ignoring .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB, cfg.Loader.BatchSize)

	// Load the CSV sources before accepting report requests
	loaderSvc := loader.NewService(&cfg.Loader, appStore)
	if cfg.Loader.LoadOnStart {
		loaderSvc.LoadOnce(ctx)
	}
	go loaderSvc.Poll(ctx)

	// Report workers
	tracker := jobs.NewTracker(cfg.Jobs.TTL)
	reports := report.NewService(&cfg.Report, appStore)
	pool := jobs.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, tracker, reports)
	pool.Start(ctx)
	logger.Printf("%d report workers started", cfg.WorkerPool.Size)

	// Initialize router
	router := api.NewRouter(&cfg.Server, api.NewHandler(appStore, pool, tracker))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server Shutdown: %v", err)
	}
	cancel()
	pool.Wait()

	logger.Println("Server gracefully stopped")
}
