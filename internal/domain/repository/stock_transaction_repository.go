package repository

import "github.com/jhoicas/kardex-api/internal/domain/entity"

// StockTransactionRepository define el puerto de cabeceras y líneas de
// transacción (auditoría del evento de negocio).
type StockTransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	CreateItem(item *entity.StockTransactionItem) error
	GetByID(id string) (*entity.StockTransaction, error)
	ListItems(transactionID string) ([]*entity.StockTransactionItem, error)
}
