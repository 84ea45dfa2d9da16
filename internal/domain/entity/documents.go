package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de los documentos con ciclo de vida. Los estados terminales no tienen
// transiciones de salida; los documentos solo cambian de estado vía la máquina
// de estados, nunca por asignación directa.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusPreparing = "PREPARING"
	StatusCompleted = "COMPLETED"
	StatusFulfilled = "FULFILLED"
	StatusPosted    = "POSTED"
	StatusReversed  = "REVERSED"
	StatusCancelled = "CANCELLED"
)

// StockRequest es una solicitud de traslado entre bodegas.
// DRAFT -> {SUBMITTED, CANCELLED}; SUBMITTED -> {FULFILLED, CANCELLED}.
// Al entrar a FULFILLED se registra un evento TRANSFER.
type StockRequest struct {
	ID                string
	CompanyID         string
	SourceWarehouseID string
	DestWarehouseID   string
	Status            string
	StatusChangedAt   time.Time
	Notes             string
	Items             []DocumentItem
	TransactionID     string // transacción TRANSFER generada al cumplir
	CreatedAt         time.Time
	CreatedBy         string
}

// TransformationOrder es una orden de manufactura/transformación: consume
// insumos y produce salidas en la misma bodega.
// DRAFT -> {PREPARING, CANCELLED}; PREPARING -> {COMPLETED, CANCELLED}.
// Al completar se registran dos eventos (OUT insumos, IN productos) en una
// sola transacción de BD: ambos o ninguno.
type TransformationOrder struct {
	ID               string
	CompanyID        string
	WarehouseID      string
	Status           string
	StatusChangedAt  time.Time
	Notes            string
	Inputs           []DocumentItem
	Outputs          []DocumentItem
	OutTransactionID string
	InTransactionID  string
	CreatedAt        time.Time
	CreatedBy        string
}

// PurchaseReceipt es una recepción de compra.
// DRAFT -> {POSTED, CANCELLED}; POSTED -> {REVERSED}.
// POSTED registra un IN; REVERSED registra el OUT contrario referenciando la
// transacción original.
type PurchaseReceipt struct {
	ID                    string
	CompanyID             string
	WarehouseID           string
	SupplierRef           string
	Status                string
	StatusChangedAt       time.Time
	Notes                 string
	Items                 []DocumentItem
	TransactionID         string
	ReversalTransactionID string
	CreatedAt             time.Time
	CreatedBy             string
}

// DocumentItem es una línea de documento en unidades de empaque (sin normalizar).
type DocumentItem struct {
	ID          string
	DocumentID  string
	ItemID      string
	PackagingID string // vacío = empaque base
	InputQty    decimal.Decimal
	UnitCost    decimal.Decimal
	Direction   string // "input"/"output" en órdenes de transformación
}

// Direcciones de línea en órdenes de transformación.
const (
	DirectionInput  = "input"
	DirectionOutput = "output"
)
