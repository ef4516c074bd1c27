package migrations

import (
	"gorm.io/gorm"
)

// AddIndexes crea los índices que usan las consultas del dashboard y del
// catálogo. Idempotente; corre en cada arranque.
func AddIndexes(db *gorm.DB) error {
	// Tabla tracking_events: las consultas siempre cortan por fecha y tipo
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_created_at ON tracking_events (created_at)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_type_created ON tracking_events (event_type, created_at)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_user_id ON tracking_events (user_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_session_id ON tracking_events (session_id)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_utm ON tracking_events (utm_source, utm_medium, utm_campaign)").Error; err != nil {
		return err
	}

	// Tabla vehicles: filtros del catálogo
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_vehicles_brand_model ON vehicles (brand, model)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_vehicles_year ON vehicles (year)").Error; err != nil {
		return err
	}

	return nil
}
