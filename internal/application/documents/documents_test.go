package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/documents"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

const (
	companyID    = "co-001"
	userID       = "user-001"
	sourceWH     = "wh-central"
	destWH       = "wh-norte"
	inputItemID  = "item-harina"
	outputItemID = "item-pan"
)

// fixture arma el motor completo en memoria: bodegas, items con su empaque
// base y los tres casos de uso de documentos sobre el mismo orquestador.
type fixture struct {
	store           *memory.Store
	orchestrator    *inventory.Orchestrator
	requests        *documents.StockRequestUseCase
	transformations *documents.TransformationUseCase
	receipts        *documents.ReceiptUseCase
}

func newDocsFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.SeedWarehouse(entity.Warehouse{ID: sourceWH, CompanyID: companyID, Name: "Bodega Central", CreatedAt: now})
	store.SeedWarehouse(entity.Warehouse{ID: destWH, CompanyID: companyID, Name: "Bodega Norte", CreatedAt: now})
	for _, it := range []struct{ id, sku, name string }{
		{inputItemID, "HAR-001", "Harina 1kg"},
		{outputItemID, "PAN-001", "Pan artesanal"},
	} {
		store.SeedItem(entity.Item{
			ID: it.id, CompanyID: companyID, SKU: it.sku, Name: it.name,
			BaseUnit: "UND", IsActive: true, CreatedAt: now,
		})
		store.SeedPackaging(entity.Packaging{
			ID: "pack-" + it.id, ItemID: it.id, PackType: "unit", Label: "Unidad",
			ConversionFactor: decimal.NewFromInt(1), IsBase: true, IsActive: true, CreatedAt: now,
		})
	}

	met := metrics.Nop()
	normalizer := inventory.NewNormalizeUseCase(store.Items(), store.Repos().Packagings)
	orch := inventory.NewOrchestrator(
		store,
		normalizer,
		store.Warehouses(),
		store.Repos().Stock,
		met,
		logger.New(logger.Config{Env: "test", Level: "error"}),
	)
	return &fixture{
		store:           store,
		orchestrator:    orch,
		requests:        documents.NewStockRequestUseCase(store, orch, store.Repos().StockRequests, store.Warehouses(), met),
		transformations: documents.NewTransformationUseCase(store, orch, store.Repos().Transformations, store.Warehouses(), met),
		receipts:        documents.NewReceiptUseCase(store, orch, store.Repos().Receipts, store.Warehouses(), met),
	}
}

// stockIn repone qty unidades base del item en la bodega vía el orquestador.
func (f *fixture) stockIn(t *testing.T, itemID, warehouseID string, qty int64) {
	t.Helper()
	_, err := f.orchestrator.Execute(context.Background(), inventory.TransactionInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: warehouseID,
		Type:        entity.TransactionTypeIN,
		VoucherType: entity.VoucherTypeAdjustment,
		Lines: []inventory.LineInput{{
			ItemID:   itemID,
			InputQty: decimal.NewFromInt(qty),
		}},
	})
	require.NoError(t, err)
}

// stockOut retira qty unidades base del item en la bodega.
func (f *fixture) stockOut(t *testing.T, itemID, warehouseID string, qty int64) {
	t.Helper()
	_, err := f.orchestrator.Execute(context.Background(), inventory.TransactionInput{
		CompanyID:   companyID,
		UserID:      userID,
		WarehouseID: warehouseID,
		Type:        entity.TransactionTypeOUT,
		VoucherType: entity.VoucherTypeAdjustment,
		Lines: []inventory.LineInput{{
			ItemID:   itemID,
			InputQty: decimal.NewFromInt(qty),
		}},
	})
	require.NoError(t, err)
}

func (f *fixture) stock(t *testing.T, itemID, warehouseID string) decimal.Decimal {
	t.Helper()
	st, err := f.store.Repos().Stock.Get(itemID, warehouseID)
	require.NoError(t, err)
	return st.CurrentStock
}

func (f *fixture) ledgerTotal(t *testing.T, itemID, warehouseID string) int {
	t.Helper()
	_, total, err := f.store.Repos().Ledger.List(itemID, warehouseID, nil, nil, 100, 0)
	require.NoError(t, err)
	return total
}
