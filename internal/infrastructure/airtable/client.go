package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

const (
	defaultBaseURL  = "https://api.airtable.com/v0"
	valuationsTable = "Valuations"
)

// Store persiste los registros de valuación en Airtable, la base operativa
// del equipo de compras. Las fallas aquí no tumban la valuación: el caller
// las registra y continúa.
type Store interface {
	SaveValuation(ctx context.Context, record entities.ValuationRecord) (string, error)
}

type store struct {
	httpc   *http.Client
	baseURL string
	baseID  string
	token   string
}

// NewStore lee la configuración de Airtable del ambiente.
func NewStore() (Store, error) {
	baseID := os.Getenv("AIRTABLE_BASE_ID")
	token := os.Getenv("AIRTABLE_API_KEY")
	if baseID == "" || token == "" {
		return nil, fmt.Errorf("faltan AIRTABLE_BASE_ID / AIRTABLE_API_KEY en el ambiente")
	}
	return &store{
		httpc:   &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		baseID:  baseID,
		token:   token,
	}, nil
}

// NewStoreWithConfig existe para pruebas con un servidor local.
func NewStoreWithConfig(baseURL, baseID, token string, httpc *http.Client) Store {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &store{httpc: httpc, baseURL: baseURL, baseID: baseID, token: token}
}

type createRecordsRequest struct {
	Records []airtableRecord `json:"records"`
}

type airtableRecord struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type createRecordsResponse struct {
	Records []airtableRecord `json:"records"`
}

// SaveValuation crea el registro de la valuación en la tabla Valuations y
// regresa el id de Airtable asignado.
func (s *store) SaveValuation(ctx context.Context, record entities.ValuationRecord) (string, error) {
	body := createRecordsRequest{
		Records: []airtableRecord{{
			Fields: map[string]interface{}{
				"Vehicle ID":        record.VehicleID,
				"Vehicle":           record.VehicleLabel,
				"Mileage":           record.Mileage,
				"Suggested Offer":   record.SuggestedOffer,
				"High Market Value": record.HighMarket,
				"Low Market Value":  record.LowMarket,
				"Requested At":      record.RequestedAt.UTC().Format(time.RFC3339),
			},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/%s", s.baseURL, s.baseID, valuationsTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("no se pudo conectar con Airtable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("airtable respondió HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var created createRecordsResponse
	if err := json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("respuesta ilegible de Airtable: %w", err)
	}
	if len(created.Records) == 0 {
		return "", fmt.Errorf("airtable no regresó el registro creado")
	}
	return created.Records[0].ID, nil
}
