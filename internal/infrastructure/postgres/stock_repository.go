package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador del agregado de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el agregado de (item, bodega); fila en cero si no existe.
func (r *StockRepo) Get(itemID, warehouseID string) (*entity.ItemWarehouse, error) {
	query := `
		SELECT item_id, warehouse_id, current_stock, default_location_id, updated_at
		FROM item_warehouse WHERE item_id = $1 AND warehouse_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, warehouseID), itemID, warehouseID, "get stock")
}

// GetForUpdate obtiene el agregado y bloquea la fila (SELECT ... FOR UPDATE):
// punto de serialización por (item, bodega). Si la fila no existe todavía, se
// inserta en cero primero para que el lock exista.
func (r *StockRepo) GetForUpdate(itemID, warehouseID string) (*entity.ItemWarehouse, error) {
	insert := `
		INSERT INTO item_warehouse (item_id, warehouse_id, current_stock, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, itemID, warehouseID); err != nil {
		return nil, fmt.Errorf("seed stock row: %w", err)
	}
	query := `
		SELECT item_id, warehouse_id, current_stock, default_location_id, updated_at
		FROM item_warehouse WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID, warehouseID), itemID, warehouseID, "get stock for update")
}

// Upsert inserta o actualiza el agregado por (item, bodega).
func (r *StockRepo) Upsert(s *entity.ItemWarehouse) error {
	query := `
		INSERT INTO item_warehouse (item_id, warehouse_id, current_stock, default_location_id, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock,
			default_location_id = EXCLUDED.default_location_id,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		s.ItemID, s.WarehouseID, s.CurrentStock, nullable(s.DefaultLocationID),
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista los agregados de una bodega.
func (r *StockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.ItemWarehouse, error) {
	query := `
		SELECT item_id, warehouse_id, current_stock, default_location_id, updated_at
		FROM item_warehouse WHERE warehouse_id = $1
		ORDER BY item_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemWarehouse
	for rows.Next() {
		var s entity.ItemWarehouse
		var defaultLoc *string
		if err := rows.Scan(&s.ItemID, &s.WarehouseID, &s.CurrentStock, &defaultLoc, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		s.DefaultLocationID = fromNullable(defaultLoc)
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *StockRepo) scanOne(row pgx.Row, itemID, warehouseID, op string) (*entity.ItemWarehouse, error) {
	var s entity.ItemWarehouse
	var defaultLoc *string
	err := row.Scan(&s.ItemID, &s.WarehouseID, &s.CurrentStock, &defaultLoc, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.ItemWarehouse{ItemID: itemID, WarehouseID: warehouseID, CurrentStock: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.DefaultLocationID = fromNullable(defaultLoc)
	return &s, nil
}
