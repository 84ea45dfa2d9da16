package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConfiguration       = errors.New("configuración de empaques inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia; reintentar la operación")
	ErrPackagingInUse      = errors.New("el empaque ya tiene movimientos; el factor de conversión es inmutable")
)

// InsufficientStockError detalla cuánto se pidió y cuánto hay disponible.
// Nunca se recorta la cantidad en silencio: el caller recibe ambos valores.
type InsufficientStockError struct {
	ItemID      string
	WarehouseID string
	LocationID  string // vacío si el faltante es a nivel bodega
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.LocationID != "" {
		return fmt.Sprintf("stock insuficiente en ubicación %s: solicitado %s, disponible %s",
			e.LocationID, e.Requested.String(), e.Available.String())
	}
	return fmt.Sprintf("stock insuficiente para item %s en bodega %s: solicitado %s, disponible %s",
		e.ItemID, e.WarehouseID, e.Requested.String(), e.Available.String())
}

// Is permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidTransitionError detalla la transición rechazada.
type InvalidTransitionError struct {
	Document string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición no permitida en %s: %s -> %s", e.Document, e.From, e.To)
}

// Is permite errors.Is(err, domain.ErrInvalidTransition).
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
