package utils

import (
	"os"
	"time"
)

// GetReportingLocation regresa la zona horaria de reporteo del portal.
// Por defecto Ciudad de México (UTC-6); se puede sobreescribir con la
// variable REPORTING_TIMEZONE para despliegues en otra región. Usarla en
// todo el proyecto garantiza consistencia en los cortes por día del dashboard.
func GetReportingLocation() *time.Location {
	name := os.Getenv("REPORTING_TIMEZONE")
	if name == "" {
		name = "America/Mexico_City"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback a UTC-6 si la base de zonas no está disponible
		loc = time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// GenerateDateRange genera un arreglo de fechas "YYYY-MM-DD" para todas
// las fechas en el intervalo from..to (inclusivo).
func GenerateDateRange(from, to time.Time) []string {
	if from.IsZero() || to.IsZero() || from.After(to) {
		return []string{}
	}

	// Normalizar las fechas al inicio del día
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())

	days := int(to.Sub(from).Hours()/24) + 1 // +1 para incluir el día final

	result := make([]string, days)
	current := from
	for i := 0; i < days; i++ {
		result[i] = current.Format("2006-01-02")
		current = current.AddDate(0, 0, 1)
	}

	return result
}
