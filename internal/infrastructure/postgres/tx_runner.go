package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los locks de fila (SELECT ... FOR UPDATE) tomados dentro
// de fn se liberan al terminar la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Ledger:          NewLedgerRepository(tx),
		Stock:           NewStockRepository(tx),
		Locations:       NewLocationRepository(tx),
		LocationStock:   NewItemLocationRepository(tx),
		Transactions:    NewStockTransactionRepository(tx),
		Packagings:      NewPackagingRepository(tx),
		StockRequests:   NewStockRequestRepository(tx),
		Transformations: NewTransformationOrderRepository(tx),
		Receipts:        NewPurchaseReceiptRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
