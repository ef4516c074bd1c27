package entities

import "time"

// Vehicle identifica una versión específica de un auto del catálogo.
// Los cuatro identificadores externos (brand/model/year/trim) son opacos
// y se requieren completos para consultar la API de valuación.
type Vehicle struct {
	ID    string `json:"id" gorm:"primaryKey;column:id"`
	Label string `json:"label" gorm:"column:label"`
	Brand string `json:"brand" gorm:"column:brand"`
	Model string `json:"model" gorm:"column:model"`
	Year  int    `json:"year" gorm:"column:year"`
	Trim  string `json:"trim" gorm:"column:trim"`

	// Identificadores externos de Intelimotor
	BrandID string `json:"brand_id" gorm:"column:brand_id"`
	ModelID string `json:"model_id" gorm:"column:model_id"`
	YearID  string `json:"year_id" gorm:"column:year_id"`
	TrimID  string `json:"trim_id" gorm:"column:trim_id"`

	// Ofertas previas deduplicadas, en orden de llegada
	HistoricalOffers []float64 `json:"historical_offers" gorm:"column:historical_offers;type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// HasAppraisalIDs indica si el vehículo tiene los cuatro identificadores
// externos necesarios para solicitar una valuación.
func (v Vehicle) HasAppraisalIDs() bool {
	return v.BrandID != "" && v.ModelID != "" && v.YearID != "" && v.TrimID != ""
}

// AddHistoricalOffer agrega una oferta al historial si no está registrada.
// Regresa true si el historial cambió.
func (v *Vehicle) AddHistoricalOffer(offer float64) bool {
	if offer <= 0 {
		return false
	}
	for _, prev := range v.HistoricalOffers {
		if prev == offer {
			return false
		}
	}
	v.HistoricalOffers = append(v.HistoricalOffers, offer)
	return true
}
