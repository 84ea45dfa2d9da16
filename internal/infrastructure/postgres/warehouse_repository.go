package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)
var _ repository.LocationRepository = (*LocationRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de bodegas. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// GetByID obtiene una bodega por ID; nil si no existe.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM warehouses WHERE id = $1`
	var w entity.Warehouse
	var address *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.CompanyID, &w.Name, &address, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	w.Address = fromNullable(address)
	return &w, nil
}

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación. El índice único parcial de la tabla garantiza
// una sola ubicación por defecto por bodega.
func (r *LocationRepo) Create(loc *entity.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO warehouse_locations (id, warehouse_id, code, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		loc.ID, loc.WarehouseID, loc.Code, loc.IsDefault, loc.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, is_default, created_at
		FROM warehouse_locations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get location")
}

// GetDefault obtiene la ubicación por defecto de la bodega; nil si no existe.
func (r *LocationRepo) GetDefault(warehouseID string) (*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, is_default, created_at
		FROM warehouse_locations WHERE warehouse_id = $1 AND is_default`
	return r.scanOne(r.q.QueryRow(context.Background(), query, warehouseID), "get default location")
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (r *LocationRepo) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, is_default, created_at
		FROM warehouse_locations WHERE warehouse_id = $1
		ORDER BY is_default DESC, code`
	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var loc entity.Location
		if err := rows.Scan(&loc.ID, &loc.WarehouseID, &loc.Code, &loc.IsDefault, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &loc)
	}
	return list, rows.Err()
}

func (r *LocationRepo) scanOne(row pgx.Row, op string) (*entity.Location, error) {
	var loc entity.Location
	err := row.Scan(&loc.ID, &loc.WarehouseID, &loc.Code, &loc.IsDefault, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &loc, nil
}
