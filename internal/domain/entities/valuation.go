package entities

import "time"

// IntelimotorValuation es el resultado normalizado de una orquestación de
// valuación. SuggestedOffer siempre es la mejor cifra disponible — oferta
// directa de la API o fallback calculado sobre los comparables de mercado —
// y es > 0 en todo resultado exitoso; si ninguna regla produce un valor
// positivo la orquestación falla en lugar de regresar una oferta en cero.
type IntelimotorValuation struct {
	SuggestedOffer   float64 `json:"suggestedOffer"`
	OfertaAutomatica float64 `json:"ofertaAutomatica"`
	HighMarketValue  float64 `json:"highMarketValue"`
	LowMarketValue   float64 `json:"lowMarketValue"`
	AvgDaysOnMarket  float64 `json:"avgDaysOnMarket,omitempty"`
	AvgKms           float64 `json:"avgKms,omitempty"`
}

// ValuationRecord es la forma con la que una valuación exitosa se persiste
// en Airtable para seguimiento del equipo de compras.
type ValuationRecord struct {
	VehicleID      string    `json:"vehicle_id"`
	VehicleLabel   string    `json:"vehicle_label"`
	Mileage        float64   `json:"mileage"`
	SuggestedOffer float64   `json:"suggested_offer"`
	HighMarket     float64   `json:"high_market_value"`
	LowMarket      float64   `json:"low_market_value"`
	RequestedAt    time.Time `json:"requested_at"`
}
