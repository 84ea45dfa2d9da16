package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLineRequest línea de un evento de inventario, en unidades del
// empaque elegido. PackagingID vacío = empaque base del item.
type TransactionLineRequest struct {
	ItemID      string          `json:"item_id"`
	PackagingID string          `json:"packaging_id,omitempty"`
	InputQty    decimal.Decimal `json:"input_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// ExecuteTransactionRequest body para POST /api/inventory/transactions.
type ExecuteTransactionRequest struct {
	Type            string                   `json:"type"` // IN, OUT, TRANSFER
	WarehouseID     string                   `json:"warehouse_id"`
	DestWarehouseID string                   `json:"dest_warehouse_id,omitempty"`
	AllowNegative   bool                     `json:"allow_negative,omitempty"`
	VoucherType     string                   `json:"voucher_type"`
	VoucherNumber   string                   `json:"voucher_number,omitempty"`
	ReferenceType   string                   `json:"reference_type,omitempty"`
	ReferenceID     string                   `json:"reference_id,omitempty"`
	ReferenceCode   string                   `json:"reference_code,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
	Lines           []TransactionLineRequest `json:"lines"`
}

// NormalizeRequest body para POST /api/inventory/normalize.
type NormalizeRequest struct {
	Lines []TransactionLineRequest `json:"lines"`
}

// NormalizedLineDTO resultado de la normalización de una línea.
type NormalizedLineDTO struct {
	ItemID           string          `json:"item_id"`
	PackagingID      string          `json:"packaging_id"` // resuelto (base si no se envió)
	InputQty         decimal.Decimal `json:"input_qty"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	NormalizedQty    decimal.Decimal `json:"normalized_qty"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// KardexEntryDTO un asiento del kardex para reportes.
type KardexEntryDTO struct {
	ID                  int64           `json:"id"`
	TransactionID       string          `json:"transaction_id"`
	PostingDate         string          `json:"posting_date"`
	PostingTime         string          `json:"posting_time"`
	ActualQty           decimal.Decimal `json:"actual_qty"`
	QtyAfterTransaction decimal.Decimal `json:"qty_after_transaction"`
	ValuationRate       decimal.Decimal `json:"valuation_rate"`
	StockValue          decimal.Decimal `json:"stock_value"`
	VoucherType         string          `json:"voucher_type"`
	VoucherNumber       string          `json:"voucher_number,omitempty"`
	IsCancelled         bool            `json:"is_cancelled,omitempty"`
}

// KardexResponse respuesta de GET /api/inventory/kardex.
type KardexResponse struct {
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	Entries        []KardexEntryDTO `json:"entries"`
	Page           PageResponse     `json:"page"`
}

// OnHandRowDTO existencia actual por item en una bodega, con estado de reorden.
type OnHandRowDTO struct {
	ItemID       string          `json:"item_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	BaseUnit     string          `json:"base_unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	BelowReorder bool            `json:"below_reorder"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AdjustLocationRequest mueve existencia entre dos ubicaciones de la misma bodega.
type AdjustLocationRequest struct {
	ItemID         string          `json:"item_id"`
	WarehouseID    string          `json:"warehouse_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	Qty            decimal.Decimal `json:"qty"`
}

// CreatePackagingRequest body para POST /api/items/:id/packagings.
type CreatePackagingRequest struct {
	PackType         string          `json:"pack_type"`
	Label            string          `json:"label"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	IsBase           bool            `json:"is_base"`
}

// UpdatePackagingRequest body para PUT /api/packagings/:id. Campos nil no cambian.
// ConversionFactor solo se acepta si el empaque no tiene movimientos.
type UpdatePackagingRequest struct {
	PackType         *string          `json:"pack_type,omitempty"`
	Label            *string          `json:"label,omitempty"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty"`
	IsActive         *bool            `json:"is_active,omitempty"`
}
