package main

import (
	"log"
	"os"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/database"
	"github.com/marianomoralesr/ultima-sub006/internal/interfaces/http/middleware"
	"github.com/marianomoralesr/ultima-sub006/internal/interfaces/http/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
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
		Concurrency: 256 * 1024,
		BodyLimit:   10 * 1024 * 1024, // 10MB
		ReadTimeout: 5 * time.Second,
		// La valuación puede tardar hasta el techo global de 40s
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Setup middleware
	middleware.SetupMiddlewares(app)

	// Setup routes
	routes.SetupRoutes(app, db)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
