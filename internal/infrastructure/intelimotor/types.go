package intelimotor

import (
	"encoding/json"
	"fmt"

	"github.com/marianomoralesr/ultima-sub006/internal/utils"
)

// APIError es un rechazo de la API de valuación (estatus no-2xx) con un
// mensaje listo para mostrarse al usuario.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuth indica si el rechazo fue por credenciales (HTTP 401).
func (e *APIError) IsAuth() bool {
	return e.StatusCode == 401
}

// NetworkError es una falla de transporte (DNS, conexión, contexto
// cancelado), distinguible de un rechazo a nivel API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("no pudimos conectar con el servicio de valuación: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RegionStats son los comparables de mercado del segmento del vehículo.
type RegionStats struct {
	AvgMarketValue  float64
	HighMarketValue float64
	LowMarketValue  float64
	AvgDaysOnMarket float64
	AvgKms          float64
}

// ValuationResponse es la respuesta de la API ya normalizada: el cuerpo
// puede venir plano o envuelto en un campo "data", los montos pueden venir
// como número o como string con formato de moneda, y el identificador
// aparece bajo dos nombres posibles. Raw conserva el payload original para
// diagnóstico de soporte.
type ValuationResponse struct {
	ID               string
	SuggestedOffer   float64
	OfertaAutomatica float64
	Stats            RegionStats
	Raw              json.RawMessage
}

// parseValuationResponse decodifica y normaliza un cuerpo de respuesta.
// La ambigüedad de envoltura se resuelve una sola vez aquí (data ?? raíz)
// en lugar de repetirse en cada acceso a campo.
func parseValuationResponse(raw []byte) (*ValuationResponse, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("respuesta ilegible del servicio de valuación: %w", err)
	}
	payload := unwrap(body)

	resp := &ValuationResponse{
		ID:               firstString(payload, "id", "valuationId"),
		SuggestedOffer:   suggestedOffer(payload),
		OfertaAutomatica: firstMoney(payload, "ofertaAutomatica", "automaticOffer"),
		Stats:            regionStats(payload),
		Raw:              json.RawMessage(raw),
	}
	return resp, nil
}

// unwrap regresa body.data si existe como objeto, si no el cuerpo mismo.
func unwrap(body map[string]interface{}) map[string]interface{} {
	if data, ok := body["data"].(map[string]interface{}); ok {
		return data
	}
	return body
}

// suggestedOffer busca la oferta directa, que puede venir al nivel del
// payload o anidada en un objeto offer.
func suggestedOffer(payload map[string]interface{}) float64 {
	if v := utils.ParseMoney(payload["suggestedOffer"]); v > 0 {
		return v
	}
	if offer, ok := payload["offer"].(map[string]interface{}); ok {
		return utils.ParseMoney(offer["suggestedOffer"])
	}
	return 0
}

// regionStats extrae stats[0].values cuando existe.
func regionStats(payload map[string]interface{}) RegionStats {
	stats, ok := payload["stats"].([]interface{})
	if !ok || len(stats) == 0 {
		return RegionStats{}
	}
	first, ok := stats[0].(map[string]interface{})
	if !ok {
		return RegionStats{}
	}
	values, ok := first["values"].(map[string]interface{})
	if !ok {
		return RegionStats{}
	}
	return RegionStats{
		AvgMarketValue:  utils.ParseMoney(values["avgMarketValue"]),
		HighMarketValue: utils.ParseMoney(values["highMarketValue"]),
		LowMarketValue:  utils.ParseMoney(values["lowMarketValue"]),
		AvgDaysOnMarket: utils.ParseMoney(values["avgDaysOnMarket"]),
		AvgKms:          utils.ParseMoney(values["avgKms"]),
	}
}

func firstString(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstMoney(payload map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if v := utils.ParseMoney(payload[key]); v > 0 {
			return v
		}
	}
	return 0
}
