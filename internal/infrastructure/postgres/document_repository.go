package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)
var _ repository.TransformationOrderRepository = (*TransformationOrderRepo)(nil)
var _ repository.PurchaseReceiptRepository = (*PurchaseReceiptRepo)(nil)

// StockRequestRepo implementación de StockRequestRepository sobre PostgreSQL.
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

// Create persiste la solicitud con sus líneas.
func (r *StockRequestRepo) Create(req *entity.StockRequest) error {
	query := `
		INSERT INTO stock_requests (id, company_id, source_warehouse_id, dest_warehouse_id,
			status, status_changed_at, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.CompanyID, req.SourceWarehouseID, req.DestWarehouseID,
		req.Status, req.StatusChangedAt, nullable(req.Notes), req.CreatedAt, nullable(req.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create stock request: %w", err)
	}
	return createDocumentItems(r.q, "stock_request_items", req.Items)
}

// GetByID obtiene la solicitud con sus líneas; nil si no existe.
func (r *StockRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	query := `
		SELECT id, company_id, source_warehouse_id, dest_warehouse_id, status,
			status_changed_at, notes, transaction_id, created_at, created_by
		FROM stock_requests WHERE id = $1`
	var req entity.StockRequest
	var notes, txID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.CompanyID, &req.SourceWarehouseID, &req.DestWarehouseID, &req.Status,
		&req.StatusChangedAt, &notes, &txID, &req.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock request: %w", err)
	}
	req.Notes = fromNullable(notes)
	req.TransactionID = fromNullable(txID)
	req.CreatedBy = fromNullable(createdBy)
	items, err := listDocumentItems(r.q, "stock_request_items", id)
	if err != nil {
		return nil, err
	}
	req.Items = items
	return &req, nil
}

// UpdateStatus persiste el nuevo estado (transición ya validada por la capa de documentos).
func (r *StockRequestRepo) UpdateStatus(id, status string, changedAt time.Time, transactionID string) error {
	query := `
		UPDATE stock_requests
		SET status = $2, status_changed_at = $3, transaction_id = COALESCE($4, transaction_id)
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, changedAt, nullable(transactionID))
	if err != nil {
		return fmt.Errorf("update stock request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TransformationOrderRepo implementación de TransformationOrderRepository sobre PostgreSQL.
type TransformationOrderRepo struct {
	q Querier
}

// NewTransformationOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransformationOrderRepository(q Querier) *TransformationOrderRepo {
	return &TransformationOrderRepo{q: q}
}

// Create persiste la orden con sus líneas de insumo y producto.
func (r *TransformationOrderRepo) Create(order *entity.TransformationOrder) error {
	query := `
		INSERT INTO transformation_orders (id, company_id, warehouse_id, status,
			status_changed_at, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.WarehouseID, order.Status,
		order.StatusChangedAt, nullable(order.Notes), order.CreatedAt, nullable(order.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create transformation order: %w", err)
	}
	if err := createDocumentItems(r.q, "transformation_order_items", order.Inputs); err != nil {
		return err
	}
	return createDocumentItems(r.q, "transformation_order_items", order.Outputs)
}

// GetByID obtiene la orden con sus líneas; nil si no existe.
func (r *TransformationOrderRepo) GetByID(id string) (*entity.TransformationOrder, error) {
	query := `
		SELECT id, company_id, warehouse_id, status, status_changed_at, notes,
			out_transaction_id, in_transaction_id, created_at, created_by
		FROM transformation_orders WHERE id = $1`
	var order entity.TransformationOrder
	var notes, outTxID, inTxID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&order.ID, &order.CompanyID, &order.WarehouseID, &order.Status, &order.StatusChangedAt,
		&notes, &outTxID, &inTxID, &order.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transformation order: %w", err)
	}
	order.Notes = fromNullable(notes)
	order.OutTransactionID = fromNullable(outTxID)
	order.InTransactionID = fromNullable(inTxID)
	order.CreatedBy = fromNullable(createdBy)
	items, err := listDocumentItems(r.q, "transformation_order_items", id)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Direction == entity.DirectionOutput {
			order.Outputs = append(order.Outputs, it)
		} else {
			order.Inputs = append(order.Inputs, it)
		}
	}
	return &order, nil
}

// UpdateStatus persiste el estado y, al completar, las dos transacciones generadas.
func (r *TransformationOrderRepo) UpdateStatus(id, status string, changedAt time.Time, outTxID, inTxID string) error {
	query := `
		UPDATE transformation_orders
		SET status = $2, status_changed_at = $3,
			out_transaction_id = COALESCE($4, out_transaction_id),
			in_transaction_id = COALESCE($5, in_transaction_id)
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, changedAt, nullable(outTxID), nullable(inTxID))
	if err != nil {
		return fmt.Errorf("update transformation order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PurchaseReceiptRepo implementación de PurchaseReceiptRepository sobre PostgreSQL.
type PurchaseReceiptRepo struct {
	q Querier
}

// NewPurchaseReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReceiptRepository(q Querier) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{q: q}
}

// Create persiste la recepción con sus líneas.
func (r *PurchaseReceiptRepo) Create(receipt *entity.PurchaseReceipt) error {
	query := `
		INSERT INTO purchase_receipts (id, company_id, warehouse_id, supplier_ref,
			status, status_changed_at, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.CompanyID, receipt.WarehouseID, nullable(receipt.SupplierRef),
		receipt.Status, receipt.StatusChangedAt, nullable(receipt.Notes),
		receipt.CreatedAt, nullable(receipt.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create purchase receipt: %w", err)
	}
	return createDocumentItems(r.q, "purchase_receipt_items", receipt.Items)
}

// GetByID obtiene la recepción con sus líneas; nil si no existe.
func (r *PurchaseReceiptRepo) GetByID(id string) (*entity.PurchaseReceipt, error) {
	query := `
		SELECT id, company_id, warehouse_id, supplier_ref, status, status_changed_at,
			notes, transaction_id, reversal_transaction_id, created_at, created_by
		FROM purchase_receipts WHERE id = $1`
	var receipt entity.PurchaseReceipt
	var supplierRef, notes, txID, reversalTxID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&receipt.ID, &receipt.CompanyID, &receipt.WarehouseID, &supplierRef,
		&receipt.Status, &receipt.StatusChangedAt, &notes, &txID, &reversalTxID,
		&receipt.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	receipt.SupplierRef = fromNullable(supplierRef)
	receipt.Notes = fromNullable(notes)
	receipt.TransactionID = fromNullable(txID)
	receipt.ReversalTransactionID = fromNullable(reversalTxID)
	receipt.CreatedBy = fromNullable(createdBy)
	items, err := listDocumentItems(r.q, "purchase_receipt_items", id)
	if err != nil {
		return nil, err
	}
	receipt.Items = items
	return &receipt, nil
}

// UpdateStatus persiste el estado y las transacciones de posteo/reversa.
func (r *PurchaseReceiptRepo) UpdateStatus(id, status string, changedAt time.Time, transactionID, reversalTxID string) error {
	query := `
		UPDATE purchase_receipts
		SET status = $2, status_changed_at = $3,
			transaction_id = COALESCE($4, transaction_id),
			reversal_transaction_id = COALESCE($5, reversal_transaction_id)
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, changedAt, nullable(transactionID), nullable(reversalTxID))
	if err != nil {
		return fmt.Errorf("update purchase receipt status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// createDocumentItems inserta líneas de documento en la tabla dada (las tres
// tablas *_items de documentos comparten esquema).
func createDocumentItems(q Querier, table string, items []entity.DocumentItem) error {
	query := `
		INSERT INTO ` + table + ` (id, document_id, item_id, packaging_id, input_qty, unit_cost, direction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		_, err := q.Exec(context.Background(), query,
			items[i].ID, items[i].DocumentID, items[i].ItemID, nullable(items[i].PackagingID),
			items[i].InputQty, items[i].UnitCost, nullable(items[i].Direction),
		)
		if err != nil {
			return fmt.Errorf("create document item: %w", err)
		}
	}
	return nil
}

// listDocumentItems lista las líneas de un documento.
func listDocumentItems(q Querier, table, documentID string) ([]entity.DocumentItem, error) {
	query := `
		SELECT id, document_id, item_id, packaging_id, input_qty, unit_cost, direction
		FROM ` + table + ` WHERE document_id = $1 ORDER BY id`
	rows, err := q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document items: %w", err)
	}
	defer rows.Close()
	var list []entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		var packagingID, direction *string
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.ItemID, &packagingID,
			&it.InputQty, &it.UnitCost, &direction); err != nil {
			return nil, fmt.Errorf("scan document item: %w", err)
		}
		it.PackagingID = fromNullable(packagingID)
		it.Direction = fromNullable(direction)
		list = append(list, it)
	}
	return list, rows.Err()
}
