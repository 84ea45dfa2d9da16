package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación de StockTransactionRepository sobre PostgreSQL.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador de transacciones. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create persiste la cabecera de la transacción.
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, company_id, warehouse_id, dest_warehouse_id,
			type, allow_negative, voucher_type, voucher_number,
			reference_type, reference_id, reference_code, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.CompanyID, tx.WarehouseID, nullable(tx.DestWarehouseID),
		tx.Type, tx.AllowNegative, tx.VoucherType, nullable(tx.VoucherNumber),
		nullable(tx.ReferenceType), nullable(tx.ReferenceID), nullable(tx.ReferenceCode),
		nullable(tx.Notes), tx.CreatedAt, nullable(tx.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la transacción.
func (r *StockTransactionRepo) CreateItem(item *entity.StockTransactionItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transaction_items (id, transaction_id, item_id, packaging_id,
			input_qty, conversion_factor, normalized_qty, unit_cost,
			stock_before, stock_after, dest_stock_before, dest_stock_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.TransactionID, item.ItemID, nullable(item.PackagingID),
		item.InputQty, item.ConversionFactor, item.NormalizedQty, item.UnitCost,
		item.StockBefore, item.StockAfter, item.DestStockBefore, item.DestStockAfter,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID; nil si no existe.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `
		SELECT id, company_id, warehouse_id, dest_warehouse_id, type, allow_negative,
			voucher_type, voucher_number, reference_type, reference_id, reference_code,
			notes, created_at, created_by
		FROM stock_transactions WHERE id = $1`
	var tx entity.StockTransaction
	var destWarehouse, voucherNumber, refType, refID, refCode, notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&tx.ID, &tx.CompanyID, &tx.WarehouseID, &destWarehouse, &tx.Type, &tx.AllowNegative,
		&tx.VoucherType, &voucherNumber, &refType, &refID, &refCode,
		&notes, &tx.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	tx.DestWarehouseID = fromNullable(destWarehouse)
	tx.VoucherNumber = fromNullable(voucherNumber)
	tx.ReferenceType = fromNullable(refType)
	tx.ReferenceID = fromNullable(refID)
	tx.ReferenceCode = fromNullable(refCode)
	tx.Notes = fromNullable(notes)
	tx.CreatedBy = fromNullable(createdBy)
	return &tx, nil
}

// ListItems lista las líneas de una transacción.
func (r *StockTransactionRepo) ListItems(transactionID string) ([]*entity.StockTransactionItem, error) {
	query := `
		SELECT id, transaction_id, item_id, packaging_id, input_qty, conversion_factor,
			normalized_qty, unit_cost, stock_before, stock_after,
			dest_stock_before, dest_stock_after, created_at
		FROM stock_transaction_items WHERE transaction_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransactionItem
	for rows.Next() {
		var it entity.StockTransactionItem
		var packagingID *string
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ItemID, &packagingID,
			&it.InputQty, &it.ConversionFactor, &it.NormalizedQty, &it.UnitCost,
			&it.StockBefore, &it.StockAfter, &it.DestStockBefore, &it.DestStockAfter,
			&it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		it.PackagingID = fromNullable(packagingID)
		list = append(list, &it)
	}
	return list, rows.Err()
}
