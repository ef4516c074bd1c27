package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/repositories"
)

type TrackingHandler struct {
	trackingRepo repositories.TrackingRepository
}

func NewTrackingHandler(trackingRepo repositories.TrackingRepository) *TrackingHandler {
	return &TrackingHandler{trackingRepo}
}

// CreateEvent registra un evento de tracking emitido por el frontend.
func (h *TrackingHandler) CreateEvent(c *fiber.Ctx) error {
	var event entities.TrackingEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cuerpo de evento inválido",
		})
	}

	if event.EventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "se requiere event_type",
		})
	}
	// Un evento sin user_id ni session_id no es atribuible a nadie
	if event.Identity() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "se requiere user_id o session_id",
		})
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := h.trackingRepo.CreateEvent(&event); err != nil {
		log.Printf("Error creating tracking event: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"event_id": event.EventID},
	})
}

// GetEvents es el listado administrativo de eventos crudos.
func (h *TrackingHandler) GetEvents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	eventType := c.Query("event_type")

	events, total, err := h.trackingRepo.GetEvents(page, limit, "created_at desc", from, to, eventType)
	if err != nil {
		log.Printf("Error getting tracking events: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": events,
		"meta": fiber.Map{
			"total":     total,
			"page":      page,
			"limit":     limit,
			"last_page": (total + int64(limit) - 1) / int64(limit),
			"from":      from.Format("2006-01-02"),
			"to":        to.Format("2006-01-02"),
		},
	})
}
