package repositories

import (
	"time"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"gorm.io/gorm"
)

type TrackingRepository interface {
	GetEventsByDateRange(from, to time.Time, eventType string) ([]entities.TrackingEvent, error)
	GetEvents(page, limit int, orderBy string, from, to time.Time, eventType string) ([]entities.TrackingEvent, int64, error)
	CountEventsByDateRange(from, to time.Time, eventType string) (int64, error)
	CreateEvent(event *entities.TrackingEvent) error
}

type trackingRepository struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) TrackingRepository {
	return &trackingRepository{db}
}

// GetEventsByDateRange trae todos los eventos del rango para el agregador
// del dashboard, en orden cronológico. El corte se hace en UTC explícito
// para no depender del timezone de la sesión de Postgres.
func (r *trackingRepository) GetEventsByDateRange(from, to time.Time, eventType string) ([]entities.TrackingEvent, error) {
	var events []entities.TrackingEvent

	query := r.db.Model(&entities.TrackingEvent{}).
		Where("created_at >= ? AND created_at <= ?", from.UTC(), to.UTC())

	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Order("created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvents es la variante paginada para el listado administrativo.
func (r *trackingRepository) GetEvents(page, limit int, orderBy string, from, to time.Time, eventType string) ([]entities.TrackingEvent, int64, error) {
	var events []entities.TrackingEvent
	var total int64

	baseQuery := r.db.Model(&entities.TrackingEvent{}).
		Where("created_at >= ? AND created_at <= ?", from.UTC(), to.UTC())

	if eventType != "" {
		baseQuery = baseQuery.Where("event_type = ?", eventType)
	}

	// El total se cuenta después de aplicar todos los filtros
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := baseQuery.Order(orderBy).Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *trackingRepository) CountEventsByDateRange(from, to time.Time, eventType string) (int64, error) {
	var total int64

	query := r.db.Model(&entities.TrackingEvent{}).
		Where("created_at >= ? AND created_at <= ?", from.UTC(), to.UTC())

	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *trackingRepository) CreateEvent(event *entities.TrackingEvent) error {
	return r.db.Create(event).Error
}
