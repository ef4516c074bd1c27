package middleware

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/golang-jwt/jwt/v5"
)

func SetupMiddlewares(app *fiber.App) {
	// CORS configuration
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "https://trefa.mx, https://portal.trefa.mx, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))
}

// RouteGroups define los grupos de rutas de la API
type RouteGroups struct {
	Public fiber.Router
	Admin  fiber.Router
}

// SetupRouteGroups configura los grupos de rutas con sus middlewares
func SetupRouteGroups(app *fiber.App) RouteGroups {
	// Grupo público (catálogo, tracking, valuación)
	public := app.Group("/")

	// Grupo administrativo (dashboard de ventas) con autenticación
	admin := app.Group("/admin")
	admin.Use(JWTAuth())

	return RouteGroups{
		Public: public,
		Admin:  admin,
	}
}

// JWTAuth valida el bearer token de los dashboards internos contra el
// secreto compartido con el frontend administrativo.
func JWTAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "se requiere un token de acceso",
			})
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token inválido o expirado",
			})
		}

		return c.Next()
	}
}
