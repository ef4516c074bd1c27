package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseMoney convierte un valor numérico semi-estructurado a float64.
// La API de valuación regresa montos como número, como string con formato
// de moneda ("$12,345.67") o simplemente no los regresa; todos los casos
// inválidos se normalizan a 0 para que la cadena de fallback sea uniforme.
func ParseMoney(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return ParseMoney(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return ParseMoney(f)
	case string:
		cleaned := strings.TrimSpace(v)
		cleaned = strings.ReplaceAll(cleaned, "$", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	default:
		// nil, bool, objetos anidados, etc.
		return 0
	}
}

// FormatMoney regresa el monto como string plano con dos decimales,
// apto para re-parsearse con ParseMoney sin pérdida.
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
