package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location representa una ubicación física dentro de una bodega (estante, zona, bin).
// Cada bodega tiene exactamente una ubicación por defecto, auto-provisionada para
// flujos que no especifican ubicación.
type Location struct {
	ID          string
	WarehouseID string
	Code        string
	IsDefault   bool
	CreatedAt   time.Time
}
