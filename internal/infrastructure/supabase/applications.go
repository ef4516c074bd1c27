package supabase

import (
	"fmt"
	"os"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
)

// ApplicationsRepository lee las solicitudes de financiamiento a través de
// la capa REST de Supabase (PostgREST), el mismo camino por el que el
// frontend las escribe.
type ApplicationsRepository interface {
	GetApplicationsByDateRange(from, to time.Time) ([]entities.FinancingApplication, error)
}

type applicationsRepository struct {
	client *supa.Client
}

// NewApplicationsRepository arma el cliente de Supabase con la service key
// del ambiente.
func NewApplicationsRepository() (ApplicationsRepository, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if url == "" || key == "" {
		return nil, fmt.Errorf("faltan SUPABASE_URL / SUPABASE_SERVICE_KEY en el ambiente")
	}

	client, err := supa.NewClient(url, key, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("no se pudo crear el cliente de Supabase: %w", err)
	}
	return &applicationsRepository{client: client}, nil
}

func (r *applicationsRepository) GetApplicationsByDateRange(from, to time.Time) ([]entities.FinancingApplication, error) {
	var applications []entities.FinancingApplication

	_, err := r.client.From("financing_applications").
		Select("*", "", false).
		Gte("created_at", from.UTC().Format(time.RFC3339)).
		Lte("created_at", to.UTC().Format(time.RFC3339)).
		Order("created_at", nil).
		ExecuteTo(&applications)
	if err != nil {
		return nil, fmt.Errorf("error al consultar financing_applications: %w", err)
	}

	return applications, nil
}
