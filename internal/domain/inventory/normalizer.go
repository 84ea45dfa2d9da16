package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
)

// Normalize convierte una cantidad en unidades de empaque a unidades base
// (servicio de dominio, puro). Se usa decimal para que normalizar y luego
// des-normalizar reproduzca la entrada exacta, sin error acumulado de punto
// flotante binario.
func Normalize(conversionFactor, inputQty decimal.Decimal) (decimal.Decimal, error) {
	if !conversionFactor.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrConfiguration
	}
	if !inputQty.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return inputQty.Mul(conversionFactor), nil
}

// Denormalize es la inversa exacta de Normalize: unidades base -> unidades del empaque.
func Denormalize(conversionFactor, normalizedQty decimal.Decimal) (decimal.Decimal, error) {
	if !conversionFactor.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrConfiguration
	}
	return normalizedQty.Div(conversionFactor), nil
}
