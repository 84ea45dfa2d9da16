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

var _ repository.PackagingRepository = (*PackagingRepo)(nil)

// PackagingRepo implementación de PackagingRepository sobre PostgreSQL.
type PackagingRepo struct {
	q Querier
}

// NewPackagingRepository construye el adaptador de empaques. Pasar pool o tx (Querier).
func NewPackagingRepository(q Querier) *PackagingRepo {
	return &PackagingRepo{q: q}
}

const packagingColumns = `id, item_id, pack_type, label, conversion_factor, is_base, is_active, usage_count, created_at, updated_at`

// Create persiste un empaque. El índice único parcial de la tabla garantiza un
// solo empaque base por item.
func (r *PackagingRepo) Create(p *entity.Packaging) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO item_packaging (` + packagingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.ItemID, p.PackType, p.Label, p.ConversionFactor,
		p.IsBase, p.IsActive, p.UsageCount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConfiguration
		}
		return fmt.Errorf("create packaging: %w", err)
	}
	return nil
}

// GetByID obtiene un empaque por ID; nil si no existe.
func (r *PackagingRepo) GetByID(id string) (*entity.Packaging, error) {
	query := `SELECT ` + packagingColumns + ` FROM item_packaging WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get packaging")
}

// GetBase obtiene el empaque base (factor 1) del item; nil si no existe.
func (r *PackagingRepo) GetBase(itemID string) (*entity.Packaging, error) {
	query := `SELECT ` + packagingColumns + ` FROM item_packaging WHERE item_id = $1 AND is_base`
	return r.scanOne(r.q.QueryRow(context.Background(), query, itemID), "get base packaging")
}

// ListByItem lista los empaques de un item, base primero.
func (r *PackagingRepo) ListByItem(itemID string) ([]*entity.Packaging, error) {
	query := `
		SELECT ` + packagingColumns + ` FROM item_packaging
		WHERE item_id = $1
		ORDER BY is_base DESC, conversion_factor`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list packagings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Packaging
	for rows.Next() {
		var p entity.Packaging
		if err := rows.Scan(&p.ID, &p.ItemID, &p.PackType, &p.Label, &p.ConversionFactor,
			&p.IsBase, &p.IsActive, &p.UsageCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan packaging: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza etiqueta, factor y estado. La inmutabilidad del factor con
// usage_count > 0 se valida en la capa de aplicación.
func (r *PackagingRepo) Update(p *entity.Packaging) error {
	query := `
		UPDATE item_packaging
		SET label = $2, conversion_factor = $3, is_active = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, p.ID, p.Label, p.ConversionFactor, p.IsActive)
	if err != nil {
		return fmt.Errorf("update packaging: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementUsage suma 1 a usage_count (se invoca dentro de la tx del asiento).
func (r *PackagingRepo) IncrementUsage(id string) error {
	query := `UPDATE item_packaging SET usage_count = usage_count + 1, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("increment packaging usage: %w", err)
	}
	return nil
}

func (r *PackagingRepo) scanOne(row pgx.Row, op string) (*entity.Packaging, error) {
	var p entity.Packaging
	err := row.Scan(&p.ID, &p.ItemID, &p.PackType, &p.Label, &p.ConversionFactor,
		&p.IsBase, &p.IsActive, &p.UsageCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
