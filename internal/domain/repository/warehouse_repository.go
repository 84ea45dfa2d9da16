package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// WarehouseRepository define el puerto de lectura de bodegas.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
}

// LocationRepository define el puerto de persistencia para ubicaciones (bins).
type LocationRepository interface {
	Create(loc *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	// GetDefault retorna la ubicación por defecto de la bodega; nil si no existe.
	GetDefault(warehouseID string) (*entity.Location, error)
	ListByWarehouse(warehouseID string) ([]*entity.Location, error)
}
