package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// PackagingRepository define el puerto de persistencia para empaques (catálogo
// de presentaciones por item).
type PackagingRepository interface {
	Create(p *entity.Packaging) error
	GetByID(id string) (*entity.Packaging, error)
	// GetBase retorna el empaque base (factor 1) del item; nil si no existe.
	GetBase(itemID string) (*entity.Packaging, error)
	ListByItem(itemID string) ([]*entity.Packaging, error)
	Update(p *entity.Packaging) error
	// IncrementUsage suma 1 a usage_count; se invoca en la misma transacción
	// que el asiento del kardex que referencia el empaque.
	IncrementUsage(id string) error
}
