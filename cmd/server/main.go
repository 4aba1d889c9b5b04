package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
	"github.com/nayeem-dv/socialdeck/backend/internal/router"
	"github.com/nayeem-dv/socialdeck/backend/pkg/config"
	"github.com/nayeem-dv/socialdeck/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, cfg)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg)

	// Validator
	e.Validator = validators.NewValidator()

	// Periodic engagement recount repairs counter drift from any
	// non-transactional write path.
	likeRepo := repositories.NewMongoLikeRepository(db.Database)
	go runReconciler(likeRepo, cfg.ReconcileInterval)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func runReconciler(likeRepo repositories.LikeRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := likeRepo.RecountEngagement(ctx); err != nil {
			log.Printf("Engagement recount failed: %v", err)
		} else {
			log.Println("Engagement counters reconciled.")
		}
		cancel()
	}
}
