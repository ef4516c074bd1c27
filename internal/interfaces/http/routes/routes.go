package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"

	"github.com/marianomoralesr/ultima-sub006/internal/application/usecases"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/repositories"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/airtable"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/cache"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/intelimotor"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/supabase"
	"github.com/marianomoralesr/ultima-sub006/internal/interfaces/http/handlers"
	"github.com/marianomoralesr/ultima-sub006/internal/interfaces/http/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(etag.New())
	app.Use(middleware.PerformanceLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	trackingRepo := repositories.NewTrackingRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)

	// Colaboradores externos opcionales: sin credenciales el portal sigue
	// funcionando, solo sin persistencia en Airtable / sin solicitudes
	applicationsRepo, err := supabase.NewApplicationsRepository()
	if err != nil {
		log.Printf("⚠️ Supabase REST deshabilitado: %v", err)
	}
	airtableStore, err := airtable.NewStore()
	if err != nil {
		log.Printf("⚠️ Airtable deshabilitado: %v", err)
	}

	intelimotorClient := intelimotor.NewClient(intelimotor.ConfigFromEnv())

	valuationUseCase := usecases.NewValuationUseCase(intelimotorClient, usecases.DefaultValuationConfig())
	analyticsUseCase := usecases.NewAnalyticsUseCase()

	metricsCache := cache.New()
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepo)
	valuationHandler := handlers.NewValuationHandler(valuationUseCase, vehicleRepo, airtableStore)
	trackingHandler := handlers.NewTrackingHandler(trackingRepo)
	dashboardHandler := handlers.NewDashboardHandler(analyticsUseCase, trackingRepo, applicationsRepo, metricsCache)

	groups := middleware.SetupRouteGroups(app)

	// Catálogo de vehículos
	groups.Public.Get("/vehicles", vehicleHandler.GetVehicles)
	groups.Public.Get("/vehicles/:id", vehicleHandler.GetVehicleByID)

	// Valuación
	groups.Public.Post("/valuations", valuationHandler.RequestValuation)

	// Ingesta de tracking
	groups.Public.Post("/events", trackingHandler.CreateEvent)

	// Dashboard interno
	groups.Admin.Get("/dashboard/tracking", dashboardHandler.GetTrackingDashboard)
	groups.Admin.Get("/events", trackingHandler.GetEvents)
}
