package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Ledger          repository.LedgerRepository
	Stock           repository.StockRepository
	Locations       repository.LocationRepository
	LocationStock   repository.ItemLocationRepository
	Transactions    repository.StockTransactionRepository
	Packagings      repository.PackagingRepository
	StockRequests   repository.StockRequestRepository
	Transformations repository.TransformationOrderRepository
	Receipts        repository.PurchaseReceiptRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor: todo el
// evento orquestado (asientos + ubicaciones + agregado + auditoría) se
// confirma o se revierte como unidad, sin compensación manual.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
