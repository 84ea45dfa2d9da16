package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un producto o SKU del inventario (multi-bodega).
// Todas las cantidades del kardex se almacenan en la unidad base del item.
type Item struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	BaseUnit     string          // unidad base de medida (ej. "UND", "KG")
	ReorderPoint decimal.Decimal // punto de reorden por bodega (umbral)
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
