package handlers

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/marianomoralesr/ultima-sub006/internal/application/usecases"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/domain/repositories"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/airtable"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/intelimotor"
)

type ValuationHandler struct {
	valuationUseCase usecases.ValuationUseCase
	vehicleRepo      repositories.VehicleRepository
	airtableStore    airtable.Store // nil cuando Airtable no está configurado
}

func NewValuationHandler(valuationUseCase usecases.ValuationUseCase, vehicleRepo repositories.VehicleRepository, airtableStore airtable.Store) *ValuationHandler {
	return &ValuationHandler{
		valuationUseCase: valuationUseCase,
		vehicleRepo:      vehicleRepo,
		airtableStore:    airtableStore,
	}
}

type valuationRequestBody struct {
	VehicleID string  `json:"vehicle_id"`
	Mileage   float64 `json:"mileage"`
}

// RequestValuation corre la orquestación de valuación para un vehículo del
// catálogo y, si hay oferta, la persiste en Airtable y en el historial del
// vehículo. Las fallas de persistencia se registran pero no le quitan al
// usuario la oferta que ya obtuvo.
func (h *ValuationHandler) RequestValuation(c *fiber.Ctx) error {
	var body valuationRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cuerpo de solicitud inválido",
		})
	}
	if body.VehicleID == "" || body.Mileage <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "se requieren vehicle_id y un kilometraje mayor a cero",
		})
	}

	vehicle, err := h.vehicleRepo.GetVehicleByID(body.VehicleID)
	if err != nil {
		if errors.Is(err, repositories.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.valuationUseCase.RequestValuation(c.Context(), usecases.ValuationRequest{
		Vehicle:        *vehicle,
		Mileage:        body.Mileage,
		BusinessUnitID: os.Getenv("INTELIMOTOR_BUSINESS_UNIT_ID"),
	})
	if err != nil {
		return h.mapValuationError(c, err)
	}

	h.persistValuation(vehicle, body.Mileage, result.Valuation)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"valuation":   result.Valuation,
			"rawResponse": result.RawResponse,
		},
	})
}

// mapValuationError traduce la taxonomía de errores de la orquestación a
// estatus HTTP. Solo ValuationFailedError adjunta los payloads crudos.
func (h *ValuationHandler) mapValuationError(c *fiber.Ctx, err error) error {
	var failed *usecases.ValuationFailedError
	if errors.As(err, &failed) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":       failed.Error(),
			"diagnostics": failed,
		})
	}

	if errors.Is(err, usecases.ErrValuationTimeout) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": err.Error()})
	}

	var apiErr *intelimotor.APIError
	if errors.As(err, &apiErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": apiErr.Error()})
	}

	var netErr *intelimotor.NetworkError
	if errors.As(err, &netErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": netErr.Error()})
	}

	// Errores de configuración y de respuesta malformada
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// persistValuation guarda la oferta en Airtable y en el historial del
// vehículo, con un contexto propio para no heredar la cancelación del
// request que ya respondió.
func (h *ValuationHandler) persistValuation(vehicle *entities.Vehicle, mileage float64, valuation entities.IntelimotorValuation) {
	if err := h.vehicleRepo.AppendHistoricalOffer(vehicle.ID, valuation.SuggestedOffer); err != nil {
		log.Printf("⚠️ No se pudo actualizar el historial de ofertas de %s: %v", vehicle.ID, err)
	}

	if h.airtableStore == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recordID, err := h.airtableStore.SaveValuation(ctx, entities.ValuationRecord{
		VehicleID:      vehicle.ID,
		VehicleLabel:   vehicle.Label,
		Mileage:        mileage,
		SuggestedOffer: valuation.SuggestedOffer,
		HighMarket:     valuation.HighMarketValue,
		LowMarket:      valuation.LowMarketValue,
		RequestedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("⚠️ No se pudo guardar la valuación en Airtable: %v", err)
		return
	}
	log.Printf("📋 Valuación guardada en Airtable: %s", recordID)
}
