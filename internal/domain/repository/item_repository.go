package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// ItemRepository define el puerto de lectura de items (el CRUD de catálogo
// vive en el sistema externo; el motor solo valida y reporta).
type ItemRepository interface {
	GetByID(id string) (*entity.Item, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
}
