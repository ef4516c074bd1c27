package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/repositories"
)

type VehicleHandler struct {
	vehicleRepo repositories.VehicleRepository
}

func NewVehicleHandler(vehicleRepo repositories.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo}
}

func (h *VehicleHandler) GetVehicles(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	brand := c.Query("brand")
	model := c.Query("model")
	year, _ := strconv.Atoi(c.Query("year", "0"))

	sortBy := c.Query("sortBy", "created_at")
	sortDirection := c.Query("sortDirection", "desc")
	if sortDirection != "asc" && sortDirection != "desc" {
		sortDirection = "desc"
	}

	validSortFields := map[string]string{
		"brand":      "brand",
		"model":      "model",
		"year":       "year",
		"label":      "label",
		"created_at": "created_at",
	}

	orderBy := "created_at desc"
	if field, ok := validSortFields[sortBy]; ok {
		orderBy = field + " " + sortDirection
	}

	vehicles, total, err := h.vehicleRepo.GetVehicles(page, limit, orderBy, brand, model, year)
	if err != nil {
		log.Printf("Error getting vehicles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": vehicles,
		"meta": fiber.Map{
			"total":          total,
			"page":           page,
			"limit":          limit,
			"last_page":      (total + int64(limit) - 1) / int64(limit),
			"sort_by":        sortBy,
			"sort_direction": sortDirection,
		},
	})
}

func (h *VehicleHandler) GetVehicleByID(c *fiber.Ctx) error {
	vehicle, err := h.vehicleRepo.GetVehicleByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": vehicle})
}
