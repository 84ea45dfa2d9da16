package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

func newReports(store *memory.Store) *inventory.ReportUseCase {
	return inventory.NewReportUseCase(
		store.Items(),
		store.Warehouses(),
		store.Repos().Ledger,
		store.Repos().Stock,
	)
}

func TestKardexSinRangoListaTodoElLibro(t *testing.T) {
	store, orch := newFixture(t)
	ctx := context.Background()

	execIn(t, orch, 100, "")
	_, err := orch.Execute(ctx, inventory.TransactionInput{
		CompanyID:   testCompanyID,
		UserID:      testUserID,
		WarehouseID: testWarehouse,
		Type:        entity.TransactionTypeOUT,
		VoucherType: entity.VoucherTypeSale,
		Lines: []inventory.LineInput{{
			ItemID:   testItemID,
			InputQty: decimal.NewFromInt(30),
		}},
	})
	require.NoError(t, err)

	result, err := newReports(store).Kardex(ctx, testCompanyID, testItemID, testWarehouse, nil, nil, 50, 0)
	require.NoError(t, err)
	require.True(t, result.OpeningBalance.IsZero())
	require.Equal(t, 2, result.Total)
	require.Len(t, result.Entries, 2)
	require.True(t, result.Entries[0].ActualQty.Equal(decimal.NewFromInt(100)))
	require.True(t, result.Entries[1].ActualQty.Equal(decimal.NewFromInt(-30)))
	require.True(t, result.Entries[1].QtyAfterTransaction.Equal(decimal.NewFromInt(70)))
}

func TestKardexSaldoDeAperturaAnterioresAlRango(t *testing.T) {
	store, orch := newFixture(t)
	execIn(t, orch, 100, "")

	// Rango que empieza mañana: todo el movimiento queda como apertura.
	from := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	result, err := newReports(store).Kardex(context.Background(), testCompanyID, testItemID, testWarehouse, &from, nil, 50, 0)
	require.NoError(t, err)
	require.True(t, result.OpeningBalance.Equal(decimal.NewFromInt(100)))
	require.Empty(t, result.Entries)
	require.Equal(t, 0, result.Total)
}

func TestKardexPaginacion(t *testing.T) {
	store, orch := newFixture(t)
	for i := 0; i < 4; i++ {
		execIn(t, orch, 10, "")
	}

	result, err := newReports(store).Kardex(context.Background(), testCompanyID, testItemID, testWarehouse, nil, nil, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 4, result.Total)
	require.Len(t, result.Entries, 2)
	require.True(t, result.Entries[0].QtyAfterTransaction.Equal(decimal.NewFromInt(30)))
	require.True(t, result.Entries[1].QtyAfterTransaction.Equal(decimal.NewFromInt(40)))
}

func TestKardexRechazaItemDeOtraEmpresa(t *testing.T) {
	store, orch := newFixture(t)
	execIn(t, orch, 10, "")
	store.SeedItem(entity.Item{ID: "item-ajeno", CompanyID: "co-999", SKU: "X", Name: "Ajeno", BaseUnit: "UND", IsActive: true})

	reports := newReports(store)
	ctx := context.Background()

	_, err := reports.Kardex(ctx, testCompanyID, "item-ajeno", testWarehouse, nil, nil, 50, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = reports.Kardex(ctx, testCompanyID, "", testWarehouse, nil, nil, 50, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOnHandMarcaPuntoDeReorden(t *testing.T) {
	store, orch := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	// Segundo item con existencias holgadas.
	store.SeedItem(entity.Item{
		ID: "item-azucar", CompanyID: testCompanyID, SKU: "AZU-001", Name: "Azúcar 1kg",
		BaseUnit: "UND", ReorderPoint: decimal.NewFromInt(10), IsActive: true, CreatedAt: now,
	})
	store.SeedPackaging(entity.Packaging{
		ID: "pack-azucar-und", ItemID: "item-azucar", PackType: "unit", Label: "Unidad",
		ConversionFactor: decimal.NewFromInt(1), IsBase: true, IsActive: true, CreatedAt: now,
	})

	// Arroz queda en 5 (bajo el punto de reorden 10), azúcar en 50.
	execIn(t, orch, 5, "")
	_, err := orch.Execute(ctx, inventory.TransactionInput{
		CompanyID:   testCompanyID,
		UserID:      testUserID,
		WarehouseID: testWarehouse,
		Type:        entity.TransactionTypeIN,
		VoucherType: entity.VoucherTypePurchase,
		Lines: []inventory.LineInput{{
			ItemID:   "item-azucar",
			InputQty: decimal.NewFromInt(50),
		}},
	})
	require.NoError(t, err)

	rows, err := newReports(store).OnHand(ctx, testCompanyID, testWarehouse, 50, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byItem := map[string]inventory.OnHandRow{}
	for _, row := range rows {
		byItem[row.Item.ID] = row
	}
	require.True(t, byItem[testItemID].CurrentStock.Equal(decimal.NewFromInt(5)))
	require.True(t, byItem[testItemID].BelowReorder)
	require.True(t, byItem["item-azucar"].CurrentStock.Equal(decimal.NewFromInt(50)))
	require.False(t, byItem["item-azucar"].BelowReorder)
}

func TestOnHandBodegaAjenaEsNotFound(t *testing.T) {
	store, _ := newFixture(t)
	store.SeedWarehouse(entity.Warehouse{ID: "wh-ajena", CompanyID: "co-999", Name: "Ajena"})

	_, err := newReports(store).OnHand(context.Background(), testCompanyID, "wh-ajena", 50, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
