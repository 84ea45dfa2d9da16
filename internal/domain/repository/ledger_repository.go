package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerRepository define el puerto del kardex (stock_ledger), append-only.
// La secuencia leer-saldo -> calcular -> insertar debe ejecutarse con la fila
// de item_warehouse bloqueada (lo garantiza el orquestador).
type LedgerRepository interface {
	// Append inserta un asiento y asigna su ID (BIGSERIAL). Nunca hay update ni delete.
	Append(e *entity.LedgerEntry) error
	// Latest retorna el último asiento por (posting_date, posting_time, id) desc; nil si no hay.
	Latest(itemID, warehouseID string) (*entity.LedgerEntry, error)
	GetByID(id int64) (*entity.LedgerEntry, error)
	ListByTransaction(transactionID string) ([]*entity.LedgerEntry, error)
	// List retorna asientos en orden de posteo ascendente, con total para paginación.
	List(itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, int, error)
	// OpeningBalance retorna el saldo anterior al instante dado (0 si no hay asientos previos).
	OpeningBalance(itemID, warehouseID string, before time.Time) (decimal.Decimal, error)
}
