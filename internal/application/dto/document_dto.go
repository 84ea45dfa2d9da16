package dto

import "github.com/shopspring/decimal"

// DocumentItemRequest línea de documento en unidades de empaque.
type DocumentItemRequest struct {
	ItemID      string          `json:"item_id"`
	PackagingID string          `json:"packaging_id,omitempty"`
	InputQty    decimal.Decimal `json:"input_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateStockRequestRequest body para POST /api/stock-requests.
type CreateStockRequestRequest struct {
	SourceWarehouseID string                `json:"source_warehouse_id"`
	DestWarehouseID   string                `json:"dest_warehouse_id"`
	Notes             string                `json:"notes,omitempty"`
	Items             []DocumentItemRequest `json:"items"`
}

// CreateTransformationRequest body para POST /api/transformation-orders.
type CreateTransformationRequest struct {
	WarehouseID string                `json:"warehouse_id"`
	Notes       string                `json:"notes,omitempty"`
	Inputs      []DocumentItemRequest `json:"inputs"`
	Outputs     []DocumentItemRequest `json:"outputs"`
}

// CreateReceiptRequest body para POST /api/purchase-receipts.
type CreateReceiptRequest struct {
	WarehouseID string                `json:"warehouse_id"`
	SupplierRef string                `json:"supplier_ref,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	Items       []DocumentItemRequest `json:"items"`
}

// TransitionRequest body para POST /api/<doc>/:id/transitions.
type TransitionRequest struct {
	Target string `json:"target"`
}
