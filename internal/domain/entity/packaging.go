package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Packaging representa una presentación o empaque de un item (ej. "Caja x 12").
// ConversionFactor es cuántas unidades base equivale una unidad del empaque.
// Exactamente un empaque por item es base (factor 1). Una vez que UsageCount > 0
// el factor es inmutable: cambiarlo corrompería las cantidades normalizadas históricas.
type Packaging struct {
	ID               string
	ItemID           string
	PackType         string // código: UNIT, BOX, DOZEN, CARTON...
	Label            string // etiqueta legible: "Caja x 12"
	ConversionFactor decimal.Decimal
	IsBase           bool
	IsActive         bool
	UsageCount       int64 // transacciones que referencian este empaque
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
