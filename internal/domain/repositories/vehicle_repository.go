package repositories

import (
	"errors"
	"fmt"

	"github.com/marianomoralesr/ultima-sub006/internal/domain/entities"
	"gorm.io/gorm"
)

// ErrVehicleNotFound se regresa cuando el id no existe en el catálogo.
var ErrVehicleNotFound = errors.New("el vehículo solicitado no existe en el catálogo")

type VehicleRepository interface {
	GetVehicles(page, limit int, orderBy string, brand, model string, year int) ([]entities.Vehicle, int64, error)
	GetVehicleByID(id string) (*entities.Vehicle, error)
	AppendHistoricalOffer(id string, offer float64) error
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db}
}

func (r *vehicleRepository) GetVehicles(page, limit int, orderBy string, brand, model string, year int) ([]entities.Vehicle, int64, error) {
	var vehicles []entities.Vehicle
	var total int64

	query := r.db.Model(&entities.Vehicle{})
	if brand != "" {
		query = query.Where("brand = ?", brand)
	}
	if model != "" {
		query = query.Where("model = ?", model)
	}
	if year > 0 {
		query = query.Where("year = ?", year)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order(orderBy).Offset(offset).Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

func (r *vehicleRepository) GetVehicleByID(id string) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	if err := r.db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// AppendHistoricalOffer agrega la oferta al historial deduplicado del
// vehículo. Si la oferta ya estaba registrada no se escribe nada.
func (r *vehicleRepository) AppendHistoricalOffer(id string, offer float64) error {
	vehicle, err := r.GetVehicleByID(id)
	if err != nil {
		return err
	}
	if !vehicle.AddHistoricalOffer(offer) {
		return nil
	}
	if err := r.db.Model(vehicle).Update("historical_offers", vehicle.HistoricalOffers).Error; err != nil {
		return fmt.Errorf("error al actualizar el historial de ofertas: %w", err)
	}
	return nil
}
