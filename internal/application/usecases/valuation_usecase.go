package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"github.com/marianomoralesr/ultima-sub006/internal/infrastructure/intelimotor"
)

// ErrValuationTimeout es el techo global de la orquestación: si se excede,
// la llamada falla sin importar qué tan avanzada iba.
var ErrValuationTimeout = errors.New("la valuación está tardando más de lo esperado, por favor intenta de nuevo en unos minutos")

// ValuationFailedError indica que ningún dato de la API permitió derivar
// una oferta positiva. Es el único error que carga los payloads crudos
// (creación y último sondeo) para escalamiento a soporte.
type ValuationFailedError struct {
	CreateResponse   json.RawMessage `json:"createResponse"`
	LastPollResponse json.RawMessage `json:"lastPollResponse"`
}

func (e *ValuationFailedError) Error() string {
	return "no pudimos obtener una oferta para tu vehículo en este momento"
}

// ValuationConfig expone los parámetros de la orquestación. Los márgenes
// del fallback codifican la política de precios vigente; se dejan como
// configuración con los valores de negocio por defecto.
type ValuationConfig struct {
	MaxAttempts   int
	PollInterval  time.Duration
	GlobalTimeout time.Duration
	AvgMargin     float64 // descuento sobre avgMarketValue
	MidMargin     float64 // descuento sobre el punto medio low/high
	LowMargin     float64 // descuento cuando solo hay lowMarketValue
	HighMargin    float64 // descuento cuando solo hay highMarketValue
}

// DefaultValuationConfig regresa los valores de producción.
func DefaultValuationConfig() ValuationConfig {
	return ValuationConfig{
		MaxAttempts:   6,
		PollInterval:  5 * time.Second,
		GlobalTimeout: 40 * time.Second,
		AvgMargin:     5000,
		MidMargin:     5000,
		LowMargin:     7500,
		HighMargin:    15000,
	}
}

// ValuationRequest es el insumo transitorio de una orquestación.
type ValuationRequest struct {
	Vehicle        entities.Vehicle
	Mileage        float64
	BusinessUnitID string
}

// ValuationResult es la valuación normalizada más el último payload crudo.
type ValuationResult struct {
	Valuation   entities.IntelimotorValuation `json:"valuation"`
	RawResponse json.RawMessage               `json:"rawResponse"`
}

// IntelimotorClient es la vista que la orquestación necesita del cliente
// HTTP, estrecha para poderse sustituir en pruebas.
type IntelimotorClient interface {
	Ready() error
	CreateValuation(ctx context.Context, req intelimotor.CreateValuationRequest) (*intelimotor.ValuationResponse, error)
	GetValuation(ctx context.Context, businessUnitID, valuationID string) (*intelimotor.ValuationResponse, error)
}

// ValuationUseCase orquesta una valuación completa contra Intelimotor.
type ValuationUseCase interface {
	RequestValuation(ctx context.Context, req ValuationRequest) (*ValuationResult, error)
}

type valuationUseCase struct {
	client IntelimotorClient
	cfg    ValuationConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewValuationUseCase(client IntelimotorClient, cfg ValuationConfig) *valuationUseCase {
	return &valuationUseCase{
		client: client,
		cfg:    cfg,
		sleep:  sleepWithContext,
	}
}

// sleepWithContext espera d respetando la cancelación del contexto, para
// que el techo global corte también las esperas entre sondeos.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RequestValuation ejecuta la orquestación completa: precondiciones, POST
// de creación, camino rápido si la oferta viene inmediata, sondeo acotado
// si no, y cadena de fallback sobre los comparables de mercado. Todo corre
// bajo un context.WithTimeout, de modo que al vencer el techo global la
// petición HTTP en vuelo se aborta de verdad en lugar de quedar huérfana.
func (uc *valuationUseCase) RequestValuation(ctx context.Context, req ValuationRequest) (*ValuationResult, error) {
	// Precondiciones: fallar rápido, sin tocar la red
	if err := uc.client.Ready(); err != nil {
		return nil, err
	}
	if req.BusinessUnitID == "" {
		return nil, errors.New("falta el identificador de la unidad de negocio para la valuación")
	}
	if !req.Vehicle.HasAppraisalIDs() {
		return nil, fmt.Errorf("el vehículo %q no tiene los identificadores completos de marca/modelo/año/versión", req.Vehicle.Label)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.cfg.GlobalTimeout)
	defer cancel()

	createResp, err := uc.client.CreateValuation(ctx, intelimotor.CreateValuationRequest{
		BusinessUnitID: req.BusinessUnitID,
		BrandID:        req.Vehicle.BrandID,
		ModelID:        req.Vehicle.ModelID,
		YearID:         req.Vehicle.YearID,
		TrimID:         req.Vehicle.TrimID,
		Kms:            req.Mileage,
	})
	if err != nil {
		return nil, uc.mapError(ctx, err)
	}

	// Camino rápido: la oferta ya viene en la respuesta de creación
	if offer := immediateOffer(createResp); offer > 0 {
		return buildResult(createResp, offer), nil
	}

	// Camino lento: sin identificador no hay nada que sondear
	if createResp.ID == "" {
		return nil, errors.New("el servicio de valuación regresó una respuesta sin identificador de solicitud")
	}

	last := createResp
	for attempt := 1; attempt <= uc.cfg.MaxAttempts; attempt++ {
		if err := uc.sleep(ctx, uc.cfg.PollInterval); err != nil {
			return nil, ErrValuationTimeout
		}

		resp, err := uc.client.GetValuation(ctx, req.BusinessUnitID, createResp.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrValuationTimeout
			}
			// Falla transitoria de un intento: se registra y se reintenta
			log.Printf("⚠️ Sondeo de valuación %s falló (intento %d/%d): %v",
				createResp.ID, attempt, uc.cfg.MaxAttempts, err)
			continue
		}

		last = resp
		if immediateOffer(resp) > 0 || resp.Stats.AvgMarketValue > 0 {
			break
		}
	}

	offer := uc.resolveOffer(last)
	if offer <= 0 {
		return nil, &ValuationFailedError{
			CreateResponse:   createResp.Raw,
			LastPollResponse: last.Raw,
		}
	}

	return buildResult(last, offer), nil
}

// mapError distingue el vencimiento del techo global de las demás fallas.
func (uc *valuationUseCase) mapError(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return ErrValuationTimeout
	}
	return err
}

// immediateOffer regresa la mejor oferta directa de un payload: la mayor
// entre suggestedOffer y ofertaAutomatica, 0 si ninguna es positiva.
func immediateOffer(resp *intelimotor.ValuationResponse) float64 {
	if resp.SuggestedOffer >= resp.OfertaAutomatica {
		return resp.SuggestedOffer
	}
	return resp.OfertaAutomatica
}

// resolveOffer aplica la precedencia estricta del fallback sobre el último
// payload obtenido: oferta directa, oferta automática y después los
// comparables de mercado (promedio → punto medio → solo low → solo high).
// Cada resultado se acota en 0; un fallback que queda en 0 no es oferta.
func (uc *valuationUseCase) resolveOffer(resp *intelimotor.ValuationResponse) float64 {
	if resp.SuggestedOffer > 0 {
		return resp.SuggestedOffer
	}
	if resp.OfertaAutomatica > 0 {
		return resp.OfertaAutomatica
	}

	stats := resp.Stats
	switch {
	case stats.AvgMarketValue > 0:
		return flooredAtZero(stats.AvgMarketValue - uc.cfg.AvgMargin)
	case stats.LowMarketValue > 0 && stats.HighMarketValue > 0:
		return flooredAtZero((stats.LowMarketValue+stats.HighMarketValue)/2 - uc.cfg.MidMargin)
	case stats.LowMarketValue > 0:
		return flooredAtZero(stats.LowMarketValue - uc.cfg.LowMargin)
	case stats.HighMarketValue > 0:
		return flooredAtZero(stats.HighMarketValue - uc.cfg.HighMargin)
	}
	return 0
}

func flooredAtZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func buildResult(resp *intelimotor.ValuationResponse, offer float64) *ValuationResult {
	return &ValuationResult{
		Valuation: entities.IntelimotorValuation{
			SuggestedOffer:   offer,
			OfertaAutomatica: resp.OfertaAutomatica,
			HighMarketValue:  resp.Stats.HighMarketValue,
			LowMarketValue:   resp.Stats.LowMarketValue,
			AvgDaysOnMarket:  resp.Stats.AvgDaysOnMarket,
			AvgKms:           resp.Stats.AvgKms,
		},
		RawResponse: resp.Raw,
	}
}
