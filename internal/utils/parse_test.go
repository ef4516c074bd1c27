package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
	}{
		{"número plano", 12345.67, 12345.67},
		{"entero", 95000, 95000},
		{"string con formato de moneda", "$12,345.67", 12345.67},
		{"string con espacios", "  150000  ", 150000},
		{"string sin formato", "98500.5", 98500.5},
		{"nil", nil, 0},
		{"NaN", math.NaN(), 0},
		{"infinito", math.Inf(1), 0},
		{"string ilegible", "n/a", 0},
		{"string vacío", "", 0},
		{"booleano", true, 0},
		{"objeto anidado", map[string]interface{}{"value": 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMoney(tt.input))
		})
	}
}

func TestParseMoneyIdempotente(t *testing.T) {
	// Parsear la salida formateada regresa el mismo número
	original := ParseMoney("$12,345.67")
	assert.Equal(t, original, ParseMoney(FormatMoney(original)))
}
