package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/greenroot/growth-data-aggregation/internal/api/http"
	"github.com/greenroot/growth-data-aggregation/internal/config"
	"github.com/greenroot/growth-data-aggregation/internal/dataset"
	"github.com/greenroot/growth-data-aggregation/internal/scheduler"
	"github.com/greenroot/growth-data-aggregation/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// In-memory store populated once below, then read-only per request.
	memStore := store.NewMemoryStore()

	// Core service orchestrating loaders and store.
	service := dataset.NewService(memStore, cfg.DataDir)

	// Initial load blocks startup; a session without data is useless, so a
	// total dataset failure halts the process here.
	if err := service.Load(); err != nil {
		log.Fatalf("failed to load datasets from %s: %v", cfg.DataDir, err)
	}
	log.Printf("datasets loaded from %s", cfg.DataDir)

	// Optional periodic reload (disabled unless RELOAD_INTERVAL is set).
	sched := scheduler.New(service, cfg.ReloadInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "growth-data-aggregation",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "growth-data-aggregation",
			"loadedAt": service.LoadedAt(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
