package entities

import (
	"time"

	"github.com/google/uuid"
)

// TrackingEvent es un hecho inmutable registrado por el frontend del portal
// en la tabla tracking_events de Supabase. El agregador nunca lo modifica,
// solo lo clasifica y lo cuenta.
type TrackingEvent struct {
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;primary_key;column:event_id"`
	EventType   string    `json:"event_type" gorm:"column:event_type"`
	UserID      string    `json:"user_id" gorm:"column:user_id"`
	SessionID   string    `json:"session_id" gorm:"column:session_id"`
	PageURL     string    `json:"page_url" gorm:"column:page_url"`
	UtmSource   string    `json:"utm_source" gorm:"column:utm_source"`
	UtmMedium   string    `json:"utm_medium" gorm:"column:utm_medium"`
	UtmCampaign string    `json:"utm_campaign" gorm:"column:utm_campaign"`
	UtmContent  string    `json:"utm_content" gorm:"column:utm_content"`
	UtmTerm     string    `json:"utm_term" gorm:"column:utm_term"`
	VehicleID   string    `json:"vehicle_id,omitempty" gorm:"column:vehicle_id"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (TrackingEvent) TableName() string {
	return "tracking_events"
}

// Identity regresa el identificador efectivo del usuario: user_id si existe,
// si no session_id. Un evento sin ninguno de los dos no es atribuible y la
// cadena vacía le indica al clasificador que lo ignore.
func (e TrackingEvent) Identity() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.SessionID
}
