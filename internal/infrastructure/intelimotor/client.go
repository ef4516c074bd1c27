package intelimotor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.intelimotor.com/api"

// HTTPClient es la interfaz mínima sobre http.Client, para poder inyectar
// transportes falsos en pruebas.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config contiene las credenciales y endpoints del servicio de valuación.
type Config struct {
	BaseURL   string
	ProxyURL  string // prefijo opcional para esquivar CORS; vacío = conexión directa
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// ConfigFromEnv lee la configuración de Intelimotor del ambiente.
func ConfigFromEnv() Config {
	timeout := 15 * time.Second
	if v := os.Getenv("INTELIMOTOR_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			timeout = d
		}
	}
	base := os.Getenv("INTELIMOTOR_API_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return Config{
		BaseURL:   base,
		ProxyURL:  os.Getenv("INTELIMOTOR_PROXY_URL"),
		APIKey:    os.Getenv("INTELIMOTOR_API_KEY"),
		APISecret: os.Getenv("INTELIMOTOR_API_SECRET"),
		Timeout:   timeout,
	}
}

// Client habla con la API de valuación de Intelimotor. Autenticación por
// query string (apiKey/apiSecret) en cada llamada.
type Client struct {
	httpc HTTPClient
	cfg   Config
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		httpc: &http.Client{Timeout: timeout},
		cfg:   cfg,
	}
}

// NewClientWithHTTP permite inyectar el transporte HTTP (pruebas).
func NewClientWithHTTP(cfg Config, httpc HTTPClient) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{httpc: httpc, cfg: cfg}
}

// Ready valida que el cliente tenga credenciales antes de tocar la red.
func (c *Client) Ready() error {
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return errors.New("faltan las credenciales de Intelimotor (INTELIMOTOR_API_KEY / INTELIMOTOR_API_SECRET)")
	}
	return nil
}

// CreateValuationRequest es el cuerpo de la solicitud de creación.
type CreateValuationRequest struct {
	BusinessUnitID string
	BrandID        string
	ModelID        string
	YearID         string
	TrimID         string
	Kms            float64
}

// CreateValuation manda la solicitud de valuación (POST). Regresa la
// respuesta normalizada, con el cuerpo crudo adjunto para diagnóstico.
func (c *Client) CreateValuation(ctx context.Context, req CreateValuationRequest) (*ValuationResponse, error) {
	body := map[string]interface{}{
		"businessUnitId": req.BusinessUnitID,
		"brandIds":       []string{req.BrandID},
		"modelIds":       []string{req.ModelID},
		"yearIds":        []string{req.YearID},
		"trimIds":        []string{req.TrimID},
		"kms":            req.Kms,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/business-units/%s/valuations", c.cfg.BaseURL, url.PathEscape(req.BusinessUnitID))
	return c.do(ctx, http.MethodPost, endpoint, payload)
}

// GetValuation consulta el estado de una valuación en proceso (GET).
func (c *Client) GetValuation(ctx context.Context, businessUnitID, valuationID string) (*ValuationResponse, error) {
	endpoint := fmt.Sprintf("%s/business-units/%s/valuations/%s",
		c.cfg.BaseURL, url.PathEscape(businessUnitID), url.PathEscape(valuationID))
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (*ValuationResponse, error) {
	full := c.withAuth(endpoint)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Falla de transporte (DNS, conexión, timeout del contexto):
		// distinta de un rechazo de la API
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}

	return parseValuationResponse(raw)
}

// withAuth agrega apiKey/apiSecret al query string y antepone el proxy
// cuando está configurado.
func (c *Client) withAuth(endpoint string) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	full := fmt.Sprintf("%s%sapiKey=%s&apiSecret=%s",
		endpoint, sep, url.QueryEscape(c.cfg.APIKey), url.QueryEscape(c.cfg.APISecret))
	if c.cfg.ProxyURL != "" {
		full = c.cfg.ProxyURL + full
	}
	return full
}

// apiErrorFrom traduce un estatus no exitoso a un error de dominio con
// mensaje desplegable. Los payloads de error con arreglos se deduplican
// y se unen con saltos de línea.
func apiErrorFrom(status int, raw []byte) error {
	if status == http.StatusUnauthorized {
		return &APIError{
			StatusCode: status,
			Message:    "credenciales de Intelimotor inválidas, verifica el API key y secret",
		}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch msg := body["message"].(type) {
		case string:
			if msg != "" {
				return &APIError{StatusCode: status, Message: msg}
			}
		case []interface{}:
			seen := make(map[string]struct{})
			var lines []string
			for _, m := range msg {
				s, ok := m.(string)
				if !ok || s == "" {
					continue
				}
				if _, dup := seen[s]; dup {
					continue
				}
				seen[s] = struct{}{}
				lines = append(lines, s)
			}
			if len(lines) > 0 {
				return &APIError{StatusCode: status, Message: strings.Join(lines, "\n")}
			}
		}
		if errMsg, ok := body["error"].(string); ok && errMsg != "" {
			return &APIError{StatusCode: status, Message: errMsg}
		}
	}

	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("el servicio de valuación respondió con error (HTTP %d)", status),
	}
}
