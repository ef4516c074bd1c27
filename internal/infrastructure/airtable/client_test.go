package airtable

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

func testRecord() entities.ValuationRecord {
	return entities.ValuationRecord{
		VehicleID:      "veh-1",
		VehicleLabel:   "Mazda 3 2021 i Grand Touring",
		Mileage:        45000,
		SuggestedOffer: 185000,
		HighMarket:     210000,
		LowMarket:      170000,
		RequestedAt:    time.Date(2025, 6, 30, 18, 0, 0, 0, time.UTC),
	}
}

func TestSaveValuation(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		_, _ = w.Write([]byte(`{"records": [{"id": "recABC123"}]}`))
	}))
	defer server.Close()

	s := NewStoreWithConfig(server.URL, "appBase1", "token-1", nil)
	id, err := s.SaveValuation(context.Background(), testRecord())

	require.NoError(t, err)
	assert.Equal(t, "recABC123", id)
	assert.Equal(t, "/appBase1/Valuations", gotPath)
	assert.Equal(t, "Bearer token-1", gotAuth)

	records, ok := gotBody["records"].([]interface{})
	require.True(t, ok)
	require.Len(t, records, 1)
	fields := records[0].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "veh-1", fields["Vehicle ID"])
	assert.Equal(t, 185000.0, fields["Suggested Offer"])
	assert.Equal(t, "2025-06-30T18:00:00Z", fields["Requested At"])
}

func TestSaveValuationErrorHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": {"type": "INVALID_VALUE_FOR_COLUMN"}}`))
	}))
	defer server.Close()

	s := NewStoreWithConfig(server.URL, "appBase1", "token-1", nil)
	_, err := s.SaveValuation(context.Background(), testRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
}

func TestSaveValuationSinRegistroCreado(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": []}`))
	}))
	defer server.Close()

	s := NewStoreWithConfig(server.URL, "appBase1", "token-1", nil)
	_, err := s.SaveValuation(context.Background(), testRecord())
	assert.Error(t, err)
}

func TestSaveValuationServidorInalcanzable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := NewStoreWithConfig(server.URL, "appBase1", "token-1", nil)
	_, err := s.SaveValuation(context.Background(), testRecord())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Airtable")
}
