package middleware

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PerformanceLogger mide el tiempo de respuesta de las rutas críticas
func PerformanceLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		// Rutas a monitorear: la valuación sale a un servicio externo y el
		// dashboard recorre todos los eventos del rango
		monitoredRoutes := []string{
			"/valuations",
			"/admin/dashboard",
		}

		shouldMonitor := false
		for _, route := range monitoredRoutes {
			if strings.HasPrefix(path, route) {
				shouldMonitor = true
				break
			}
		}

		if !shouldMonitor {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		log.Printf(
			"[PERFORMANCE] %s %s - %d - Duration: %v - Query params: %s",
			c.Method(),
			path,
			c.Response().StatusCode(),
			duration,
			c.Request().URI().QueryArgs().String(),
		)

		return err
	}
}
