package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/marianomoralesr/ultima-sub006/internal/application/usecases"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/repositories"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/cache"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/supabase"
	"github.com/marianomoralesr/ultima-sub006/internal/utils"
)

// TTL corto: el dashboard se refresca solo y no necesita datos al segundo
const dashboardCacheTTL = 60 * time.Second

type DashboardHandler struct {
	analyticsUseCase usecases.AnalyticsUseCase
	trackingRepo     repositories.TrackingRepository
	applicationsRepo supabase.ApplicationsRepository // nil cuando Supabase REST no está configurado
	metricsCache     *cache.Cache
}

func NewDashboardHandler(
	analyticsUseCase usecases.AnalyticsUseCase,
	trackingRepo repositories.TrackingRepository,
	applicationsRepo supabase.ApplicationsRepository,
	metricsCache *cache.Cache,
) *DashboardHandler {
	return &DashboardHandler{
		analyticsUseCase: analyticsUseCase,
		trackingRepo:     trackingRepo,
		applicationsRepo: applicationsRepo,
		metricsCache:     metricsCache,
	}
}

// GetTrackingDashboard calcula (o sirve del caché) las métricas del
// dashboard de tracking para el rango pedido. Con ?export=true regresa el
// snapshot exportable con generatedAt y dateRange.
func (h *DashboardHandler) GetTrackingDashboard(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cacheKey := fmt.Sprintf("tracking-dashboard:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	start := time.Now()

	value, err := h.metricsCache.Remember(cacheKey, dashboardCacheTTL, func() (interface{}, error) {
		events, err := h.trackingRepo.GetEventsByDateRange(from, to, "")
		if err != nil {
			return nil, fmt.Errorf("error al leer eventos de tracking: %w", err)
		}

		var applications []entities.FinancingApplication
		if h.applicationsRepo != nil {
			applications, err = h.applicationsRepo.GetApplicationsByDateRange(from, to)
			if err != nil {
				// El dashboard degrada a cero solicitudes en vez de caerse
				log.Printf("⚠️ No se pudieron leer las solicitudes de financiamiento: %v", err)
				applications = nil
			}
		}

		return h.analyticsUseCase.ComputeDashboardMetrics(events, applications), nil
	})
	if err != nil {
		log.Printf("Error computing tracking dashboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	metrics := value.(entities.TrackingDashboardMetrics)

	if c.QueryBool("export") {
		return c.JSON(h.analyticsUseCase.ExportSnapshot(metrics, from, to))
	}

	return c.JSON(fiber.Map{
		"data": metrics,
		"meta": fiber.Map{
			"from":               from.Format("2006-01-02"),
			"to":                 to.Format("2006-01-02"),
			"processing_time_ms": time.Since(start).Milliseconds(),
		},
	})
}

// parseDateRange lee from/to del query string; por defecto la ventana
// móvil de los últimos 30 días en la zona de reporteo.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	loc := utils.GetReportingLocation()
	now := time.Now().In(loc)

	from := now.AddDate(0, 0, -29)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fecha 'from' inválida: %s", v)
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fecha 'to' inválida: %s", v)
		}
		// Incluir el día completo
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("el rango de fechas está invertido")
	}

	return from, to, nil
}
