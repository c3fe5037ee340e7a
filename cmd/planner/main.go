package main

import (
	"context"
	"fmt"
	"time"

	"plan-builder/internal/common/config"
	"plan-builder/internal/common/logger"
	"plan-builder/internal/common/middleware"
	"plan-builder/internal/planner/handlers"
	"plan-builder/internal/planner/repository"
	"plan-builder/internal/planner/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Planner Service
// ============================================================

func main() {
	cfg, envLoaded := config.Load()
	logger.Init("planner", cfg.LogLevel)
	if !envLoaded {
		logger.Log.Warn("No .env file found, using environment variables")
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("init db: %v", err)
	}

	sessionManager := service.NewSessionManager(cfg.FloorCount)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sessionManager.RunSweeper(sweepCtx,
		time.Duration(cfg.SweepInterval)*time.Minute,
		time.Duration(cfg.SessionIdleTTL)*time.Minute)
	fileStorage := service.NewFileStorage(cfg.StorageRoot)
	planHandler := handlers.NewPlanHandler(sessionManager, repo, fileStorage)
	healthHandler := handlers.NewHealthHandler(repo, fileStorage, sessionManager)
	docsHandler := handlers.NewDocsHandler(cfg.OpenAPIPath)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Planner Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("planner"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", healthHandler.LivenessProbe)
	app.Get("/health/ready", healthHandler.ReadinessProbe)

	// ============================================================
	// Docs Routes
	// ============================================================

	app.Get("/docs", docsHandler.UI)
	app.Get("/docs/openapi.yaml", docsHandler.OpenAPI)

	// ============================================================
	// Planner Routes
	// ============================================================

	planHandler.Register(app.Group("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Log.Infof("Starting Planner Service on %s (env: %s, floors: %d)", addr, cfg.Environment, cfg.FloorCount)

	if err := app.Listen(addr); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
