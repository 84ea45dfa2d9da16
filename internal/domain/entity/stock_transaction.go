package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeIN       = "IN"       // entrada
	TransactionTypeOUT      = "OUT"      // salida
	TransactionTypeTRANSFER = "TRANSFER" // traslado entre bodegas
)

// StockTransaction es la cabecera de un evento de negocio que afecta stock
// (venta POS, recepción de compra, ajuste, traslado, transformación).
// Se crea una sola vez y es padre de exactamente un conjunto de asientos del
// kardex (uno por línea, dos en traslados); nunca se confirma parcialmente.
type StockTransaction struct {
	ID              string
	CompanyID       string
	WarehouseID     string
	DestWarehouseID string // solo TRANSFER
	Type            string // IN, OUT, TRANSFER
	AllowNegative   bool   // corrección intencional que puede dejar saldo negativo (auditada)
	VoucherType     string
	VoucherNumber   string
	ReferenceType   string
	ReferenceID     string
	ReferenceCode   string
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string
}

// StockTransactionItem es una línea de la transacción, con la cantidad de
// entrada (empaque elegido) y la normalizada (unidades base), más los saldos
// antes/después para auditoría.
type StockTransactionItem struct {
	ID               string
	TransactionID    string
	ItemID           string
	PackagingID      string
	InputQty         decimal.Decimal // cantidad en unidades del empaque
	ConversionFactor decimal.Decimal
	NormalizedQty    decimal.Decimal // InputQty * ConversionFactor, unidades base
	UnitCost         decimal.Decimal
	StockBefore      decimal.Decimal
	StockAfter       decimal.Decimal
	DestStockBefore  decimal.Decimal // solo TRANSFER
	DestStockAfter   decimal.Decimal // solo TRANSFER
	CreatedAt        time.Time
}
