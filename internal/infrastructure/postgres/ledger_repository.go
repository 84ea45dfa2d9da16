package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL.
// La tabla stock_ledger es append-only: este repo no expone UPDATE ni DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del kardex. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, company_id, item_id, warehouse_id, transaction_id,
	posting_date, posting_time, actual_qty, qty_after_transaction,
	valuation_rate, stock_value, stock_value_diff,
	voucher_type, voucher_number, reference_type, reference_id, reference_code,
	is_cancelled, created_at, created_by`

// Append inserta un asiento y asigna su ID (BIGSERIAL).
func (r *LedgerRepo) Append(e *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (company_id, item_id, warehouse_id, transaction_id,
			posting_date, posting_time, actual_qty, qty_after_transaction,
			valuation_rate, stock_value, stock_value_diff,
			voucher_type, voucher_number, reference_type, reference_id, reference_code,
			is_cancelled, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		e.CompanyID, e.ItemID, e.WarehouseID, e.TransactionID,
		e.PostingDate, e.PostingTime, e.ActualQty, e.QtyAfterTransaction,
		e.ValuationRate, e.StockValue, e.StockValueDiff,
		e.VoucherType, nullable(e.VoucherNumber), nullable(e.ReferenceType),
		nullable(e.ReferenceID), nullable(e.ReferenceCode),
		e.IsCancelled, e.CreatedAt, nullable(e.CreatedBy),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// Latest retorna el último asiento de (item, bodega) en orden de posteo; nil si no hay.
// El ID desempata asientos del mismo instante.
func (r *LedgerRepo) Latest(itemID, warehouseID string) (*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY posting_date DESC, posting_time DESC, id DESC
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, warehouseID), "latest ledger entry")
}

// GetByID obtiene un asiento por ID; nil si no existe.
func (r *LedgerRepo) GetByID(id int64) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get ledger entry")
}

// ListByTransaction lista los asientos generados por una transacción.
func (r *LedgerRepo) ListByTransaction(transactionID string) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE transaction_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list by transaction: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// List retorna asientos de (item, bodega) en orden de posteo ascendente, con el
// total de filas del filtro para paginación.
func (r *LedgerRepo) List(itemID, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, int, error) {
	where := ` WHERE item_id = $1 AND warehouse_id = $2`
	args := []any{itemID, warehouseID}
	pos := 3
	if from != nil {
		where += fmt.Sprintf(" AND posting_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		where += fmt.Sprintf(" AND posting_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM stock_ledger`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count ledger entries: %w", err)
	}

	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger` + where +
		fmt.Sprintf(" ORDER BY posting_date, posting_time, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	list, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// OpeningBalance retorna el saldo del último asiento anterior a la fecha dada
// (0 si no hay asientos previos).
func (r *LedgerRepo) OpeningBalance(itemID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT qty_after_transaction
		FROM stock_ledger
		WHERE item_id = $1 AND warehouse_id = $2 AND posting_date < $3
		ORDER BY posting_date DESC, posting_time DESC, id DESC
		LIMIT 1`
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID, before).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("opening balance: %w", err)
	}
	return balance, nil
}

func (r *LedgerRepo) scanOne(row pgx.Row, op string) (*entity.LedgerEntry, error) {
	e, err := scanLedgerEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func (r *LedgerRepo) scanAll(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	var voucherNumber, refType, refID, refCode, createdBy *string
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ItemID, &e.WarehouseID, &e.TransactionID,
		&e.PostingDate, &e.PostingTime, &e.ActualQty, &e.QtyAfterTransaction,
		&e.ValuationRate, &e.StockValue, &e.StockValueDiff,
		&e.VoucherType, &voucherNumber, &refType, &refID, &refCode,
		&e.IsCancelled, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	e.VoucherNumber = fromNullable(voucherNumber)
	e.ReferenceType = fromNullable(refType)
	e.ReferenceID = fromNullable(refID)
	e.ReferenceCode = fromNullable(refCode)
	e.CreatedBy = fromNullable(createdBy)
	return &e, nil
}
