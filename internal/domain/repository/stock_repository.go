package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// StockRepository define el puerto del agregado materializado item_warehouse.
// Solo el orquestador lo muta, en lock-step con los asientos del kardex.
type StockRepository interface {
	// Get retorna el agregado; si no existe la fila, retorna una en cero.
	Get(itemID, warehouseID string) (*entity.ItemWarehouse, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE): punto de
	// serialización por (item, bodega) de todo el motor.
	GetForUpdate(itemID, warehouseID string) (*entity.ItemWarehouse, error)
	Upsert(s *entity.ItemWarehouse) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.ItemWarehouse, error)
}

// ItemLocationRepository define el puerto de existencias por ubicación.
type ItemLocationRepository interface {
	Get(itemID, warehouseID, locationID string) (*entity.ItemLocationStock, error)
	Upsert(s *entity.ItemLocationStock) error
	// ListFIFO retorna las ubicaciones con existencia > 0 en orden de consumo
	// (stocked_at asc, location_id asc), bloqueadas para update.
	ListFIFO(itemID, warehouseID string) ([]*entity.ItemLocationStock, error)
	ListByWarehouse(itemID, warehouseID string) ([]*entity.ItemLocationStock, error)
}
