package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.ItemLocationRepository = (*ItemLocationRepo)(nil)

// ItemLocationRepo implementación de ItemLocationRepository sobre PostgreSQL.
type ItemLocationRepo struct {
	q Querier
}

// NewItemLocationRepository construye el adaptador de existencias por ubicación.
// Pasar pool o tx (Querier).
func NewItemLocationRepository(q Querier) *ItemLocationRepo {
	return &ItemLocationRepo{q: q}
}

// Get obtiene la existencia de (item, bodega, ubicación); nil si no existe.
func (r *ItemLocationRepo) Get(itemID, warehouseID, locationID string) (*entity.ItemLocationStock, error) {
	query := `
		SELECT item_id, warehouse_id, location_id, qty_on_hand, stocked_at, updated_at
		FROM item_location_stock
		WHERE item_id = $1 AND warehouse_id = $2 AND location_id = $3`
	var s entity.ItemLocationStock
	err := r.q.QueryRow(context.Background(), query, itemID, warehouseID, locationID).Scan(
		&s.ItemID, &s.WarehouseID, &s.LocationID, &s.QtyOnHand, &s.StockedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la existencia por (item, bodega, ubicación),
// incluyendo stocked_at (la capa de aplicación lo refresca en cada depósito).
func (r *ItemLocationRepo) Upsert(s *entity.ItemLocationStock) error {
	query := `
		INSERT INTO item_location_stock (item_id, warehouse_id, location_id, qty_on_hand, stocked_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (item_id, warehouse_id, location_id)
		DO UPDATE SET qty_on_hand = EXCLUDED.qty_on_hand,
			stocked_at = EXCLUDED.stocked_at,
			updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		s.ItemID, s.WarehouseID, s.LocationID, s.QtyOnHand, s.StockedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert location stock: %w", err)
	}
	return nil
}

// ListFIFO retorna las ubicaciones con existencia > 0 en orden de consumo
// (stocked_at asc, location_id asc), bloqueadas para update. Debe invocarse
// con la fila de item_warehouse ya bloqueada.
func (r *ItemLocationRepo) ListFIFO(itemID, warehouseID string) ([]*entity.ItemLocationStock, error) {
	query := `
		SELECT item_id, warehouse_id, location_id, qty_on_hand, stocked_at, updated_at
		FROM item_location_stock
		WHERE item_id = $1 AND warehouse_id = $2 AND qty_on_hand > 0
		ORDER BY stocked_at, location_id
		FOR UPDATE`
	return r.list(query, itemID, warehouseID, "list fifo")
}

// ListByWarehouse lista todas las existencias por ubicación de (item, bodega).
func (r *ItemLocationRepo) ListByWarehouse(itemID, warehouseID string) ([]*entity.ItemLocationStock, error) {
	query := `
		SELECT item_id, warehouse_id, location_id, qty_on_hand, stocked_at, updated_at
		FROM item_location_stock
		WHERE item_id = $1 AND warehouse_id = $2
		ORDER BY stocked_at, location_id`
	return r.list(query, itemID, warehouseID, "list location stock")
}

func (r *ItemLocationRepo) list(query, itemID, warehouseID, op string) ([]*entity.ItemLocationStock, error) {
	rows, err := r.q.Query(context.Background(), query, itemID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.ItemLocationStock
	for rows.Next() {
		var s entity.ItemLocationStock
		if err := rows.Scan(&s.ItemID, &s.WarehouseID, &s.LocationID, &s.QtyOnHand, &s.StockedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
