package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
	"github.com/pavani-labs/pulse-survey-api/internal/infrastructure/database"
	"github.com/pavani-labs/pulse-survey-api/internal/interfaces/http/middleware"
	"github.com/pavani-labs/pulse-survey-api/internal/interfaces/http/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	// Initialize database
	db, err := database.SetupDatabase()
	if err != nil {
		log.Fatalf("❌ Error setting up database: %v", err)
	}

	// Configure Fiber for better performance
	app := fiber.New(fiber.Config{
		Concurrency:  256 * 1024,
		BodyLimit:    10 * 1024 * 1024, // 10MB
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Setup middleware
	middleware.SetupMiddlewares(app)

	// Setup routes
	routes.SetupRoutes(app, db)

	// Periodic sweep: a report stuck in generating beyond the staleness
	// threshold (crashed request, lost worker) is released so the next
	// generation call can retry instead of waiting forever.
	reportRepo := repositories.NewReportRepository(db)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() {
		released, err := reportRepo.ReleaseStale(context.Background(), reports.StaleAfter)
		if err != nil {
			log.Printf("⚠️ Stale report sweep failed: %v", err)
			return
		}
		if released > 0 {
			log.Printf("🧹 Released %d stale generating reports", released)
		}
	}); err != nil {
		log.Fatalf("❌ Error scheduling stale report sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
