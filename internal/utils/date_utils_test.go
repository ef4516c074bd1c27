package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDateRange(t *testing.T) {
	from := time.Date(2025, 6, 28, 15, 30, 0, 0, time.UTC)
	to := time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC)

	dates := GenerateDateRange(from, to)

	assert.Equal(t, []string{"2025-06-28", "2025-06-29", "2025-06-30", "2025-07-01", "2025-07-02"}, dates)
}

func TestGenerateDateRangeMismoDia(t *testing.T) {
	day := time.Date(2025, 6, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-06-28"}, GenerateDateRange(day, day))
}

func TestGenerateDateRangeInvertido(t *testing.T) {
	from := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, GenerateDateRange(from, to))
}

func TestGenerateDateRangeFechasCero(t *testing.T) {
	assert.Empty(t, GenerateDateRange(time.Time{}, time.Now()))
}
