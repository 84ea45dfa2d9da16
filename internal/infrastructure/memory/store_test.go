package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func TestRunConfirmaTodoAlTerminarSinError(t *testing.T) {
	store := memory.NewStore()

	err := store.Run(context.Background(), func(r inventory.TxRepos) error {
		if err := r.Ledger.Append(&entity.LedgerEntry{
			ItemID:              "item-1",
			WarehouseID:         "wh-1",
			PostingDate:         time.Now().Truncate(24 * time.Hour),
			PostingTime:         time.Now(),
			ActualQty:           decimal.NewFromInt(10),
			QtyAfterTransaction: decimal.NewFromInt(10),
		}); err != nil {
			return err
		}
		return r.Stock.Upsert(&entity.ItemWarehouse{
			ItemID:       "item-1",
			WarehouseID:  "wh-1",
			CurrentStock: decimal.NewFromInt(10),
		})
	})
	require.NoError(t, err)

	latest, err := store.Repos().Ledger.Latest("item-1", "wh-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.NotZero(t, latest.ID)

	stock, err := store.Repos().Stock.Get("item-1", "wh-1")
	require.NoError(t, err)
	require.True(t, stock.CurrentStock.Equal(decimal.NewFromInt(10)))
}

func TestRunRevierteTodoSiLaFuncionFalla(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.Run(context.Background(), func(r inventory.TxRepos) error {
		if err := r.Ledger.Append(&entity.LedgerEntry{
			ItemID:              "item-1",
			WarehouseID:         "wh-1",
			PostingTime:         time.Now(),
			ActualQty:           decimal.NewFromInt(10),
			QtyAfterTransaction: decimal.NewFromInt(10),
		}); err != nil {
			return err
		}
		if err := r.Stock.Upsert(&entity.ItemWarehouse{
			ItemID:       "item-1",
			WarehouseID:  "wh-1",
			CurrentStock: decimal.NewFromInt(10),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Ningún escrito sobrevive a la reversión.
	latest, err := store.Repos().Ledger.Latest("item-1", "wh-1")
	require.NoError(t, err)
	require.Nil(t, latest)

	stock, err := store.Repos().Stock.Get("item-1", "wh-1")
	require.NoError(t, err)
	require.True(t, stock.CurrentStock.IsZero())
}
