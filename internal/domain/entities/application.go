package entities

import "time"

// FinancingApplication es una solicitud de financiamiento capturada por el
// frontend. Vive en la tabla financing_applications de Supabase; el frontend
// la escribe vía la capa REST (PostgREST) y esta API la lee por el mismo camino.
type FinancingApplication struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	VehicleID string    `json:"vehicle_id"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
