package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de voucher que originan asientos en el kardex.
const (
	VoucherTypeSale           = "SALE"
	VoucherTypePurchase       = "PURCHASE"
	VoucherTypeAdjustment     = "ADJUSTMENT"
	VoucherTypeTransfer       = "TRANSFER"
	VoucherTypeStockRequest   = "STOCK_REQUEST"
	VoucherTypeTransformation = "TRANSFORMATION"
	VoucherTypeReversal       = "REVERSAL"
)

// LedgerEntry es un asiento inmutable del kardex (stock_ledger), append-only.
// Para un (item, bodega) fijo, ordenando por (PostingDate, PostingTime, ID) cada
// QtyAfterTransaction es igual al saldo del asiento anterior más su propio ActualQty.
// Los asientos nunca se actualizan ni borran; una reversa es un asiento nuevo con
// signo invertido y referencia al original.
type LedgerEntry struct {
	ID                  int64 // BIGSERIAL; el orden de inserción desempata dentro del mismo instante
	CompanyID           string
	ItemID              string
	WarehouseID         string
	TransactionID       string
	PostingDate         time.Time // fecha contable (solo fecha)
	PostingTime         time.Time // hora del asiento
	ActualQty           decimal.Decimal // delta con signo, en unidades base
	QtyAfterTransaction decimal.Decimal // saldo corriente después de aplicar ActualQty
	ValuationRate       decimal.Decimal
	StockValue          decimal.Decimal // QtyAfterTransaction * ValuationRate
	StockValueDiff      decimal.Decimal // ActualQty * ValuationRate
	VoucherType         string
	VoucherNumber       string
	ReferenceType       string // "stock_transaction" cuando el asiento reversa una transacción
	ReferenceID         string
	ReferenceCode       string
	IsCancelled         bool
	CreatedAt           time.Time
	CreatedBy           string
}
