package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/documents"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	httpiface "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/logger"
	"github.com/jhoicas/kardex-api/pkg/metrics"
)

const (
	companyID = "co-001"
	itemID    = "item-arroz"
	warehouse = "wh-central"
	destWH    = "wh-norte"
)

func newTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.SeedWarehouse(entity.Warehouse{ID: warehouse, CompanyID: companyID, Name: "Bodega Central", CreatedAt: now})
	store.SeedWarehouse(entity.Warehouse{ID: destWH, CompanyID: companyID, Name: "Bodega Norte", CreatedAt: now})
	store.SeedItem(entity.Item{
		ID: itemID, CompanyID: companyID, SKU: "ARZ-500", Name: "Arroz 500g",
		BaseUnit: "UND", ReorderPoint: decimal.NewFromInt(10), IsActive: true, CreatedAt: now,
	})
	store.SeedPackaging(entity.Packaging{
		ID: "pack-und", ItemID: itemID, PackType: "unit", Label: "Unidad",
		ConversionFactor: decimal.NewFromInt(1), IsBase: true, IsActive: true, CreatedAt: now,
	})

	met := metrics.Nop()
	normalizer := inventory.NewNormalizeUseCase(store.Items(), store.Repos().Packagings)
	orch := inventory.NewOrchestrator(
		store, normalizer, store.Warehouses(), store.Repos().Stock,
		met, logger.New(logger.Config{Env: "test", Level: "error"}),
	)

	app := fiber.New()
	httpiface.Router(app, httpiface.RouterDeps{
		Orchestrator:    orch,
		Normalizer:      normalizer,
		Reports:         inventory.NewReportUseCase(store.Items(), store.Warehouses(), store.Repos().Ledger, store.Repos().Stock),
		Locations:       inventory.NewLocationUseCase(store, store.Warehouses()),
		Packagings:      inventory.NewPackagingUseCase(store.Items(), store.Repos().Packagings),
		StockRequests:   documents.NewStockRequestUseCase(store, orch, store.Repos().StockRequests, store.Warehouses(), met),
		Transformations: documents.NewTransformationUseCase(store, orch, store.Repos().Transformations, store.Warehouses(), met),
		Receipts:        documents.NewReceiptUseCase(store, orch, store.Repos().Receipts, store.Warehouses(), met),
	})
	return app, store
}

// doJSON envía la petición con los headers de tenant y decodifica la respuesta.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Company-ID", companyID)
	req.Header.Set("X-User-ID", "user-001")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestRutasRequierenHeaderDeTenant(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/inventory/on-hand?warehouse_id="+warehouse, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExecuteTransactionEndToEnd(t *testing.T) {
	app, store := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/inventory/transactions", fiber.Map{
		"type":         "IN",
		"warehouse_id": warehouse,
		"voucher_type": "PURCHASE",
		"lines": []fiber.Map{{
			"item_id":   itemID,
			"input_qty": "100",
			"unit_cost": "50",
		}},
	})
	require.Equal(t, fiber.StatusCreated, status)
	require.NotEmpty(t, body["transaction_id"])

	stock, err := store.Repos().Stock.Get(itemID, warehouse)
	require.NoError(t, err)
	require.True(t, stock.CurrentStock.Equal(decimal.NewFromInt(100)))
}

func TestExecuteTransactionInsuficienteRetorna409(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/inventory/transactions", fiber.Map{
		"type":         "OUT",
		"warehouse_id": warehouse,
		"voucher_type": "SALE",
		"lines": []fiber.Map{{
			"item_id":   itemID,
			"input_qty": "5",
		}},
	})
	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, itemID, details["item_id"])
	require.Equal(t, "5", details["requested"])
	require.Equal(t, "0", details["available"])
}

func TestExecuteTransactionTipoInvalidoRetorna400(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/inventory/transactions", fiber.Map{
		"type":         "MOVE",
		"warehouse_id": warehouse,
		"voucher_type": "SALE",
		"lines": []fiber.Map{{
			"item_id":   itemID,
			"input_qty": "1",
		}},
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "VALIDATION", body["code"])
}

func TestKardexEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/inventory/transactions", fiber.Map{
		"type":         "IN",
		"warehouse_id": warehouse,
		"voucher_type": "PURCHASE",
		"lines":        []fiber.Map{{"item_id": itemID, "input_qty": "40"}},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := doJSON(t, app, "GET", "/api/inventory/kardex?item_id="+itemID+"&warehouse_id="+warehouse, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "0", body["opening_balance"])

	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	require.Equal(t, "40", entry["actual_qty"])
	require.Equal(t, "40", entry["qty_after_transaction"])
}

func TestReceiptLifecycleEndToEnd(t *testing.T) {
	app, store := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/api/purchase-receipts", fiber.Map{
		"warehouse_id": warehouse,
		"supplier_ref": "FAC-0099",
		"items":        []fiber.Map{{"item_id": itemID, "input_qty": "24", "unit_cost": "80"}},
	})
	require.Equal(t, fiber.StatusCreated, status)
	receiptID, _ := body["id"].(string)
	require.NotEmpty(t, receiptID)
	require.Equal(t, entity.StatusDraft, body["status"])

	// Reversar sin contabilizar: la máquina de estados lo rechaza.
	status, body = doJSON(t, app, "POST", "/api/purchase-receipts/"+receiptID+"/transitions", fiber.Map{
		"target": entity.StatusReversed,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	require.Equal(t, "INVALID_TRANSITION", body["code"])

	status, body = doJSON(t, app, "POST", "/api/purchase-receipts/"+receiptID+"/transitions", fiber.Map{
		"target": entity.StatusPosted,
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, entity.StatusPosted, body["status"])
	require.NotEmpty(t, body["transaction_id"])

	stock, err := store.Repos().Stock.Get(itemID, warehouse)
	require.NoError(t, err)
	require.True(t, stock.CurrentStock.Equal(decimal.NewFromInt(24)))
}

func TestStockRequestLifecycleEndToEnd(t *testing.T) {
	app, store := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/inventory/transactions", fiber.Map{
		"type":         "IN",
		"warehouse_id": warehouse,
		"voucher_type": "PURCHASE",
		"lines":        []fiber.Map{{"item_id": itemID, "input_qty": "100"}},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := doJSON(t, app, "POST", "/api/stock-requests", fiber.Map{
		"source_warehouse_id": warehouse,
		"dest_warehouse_id":   destWH,
		"items":               []fiber.Map{{"item_id": itemID, "input_qty": "40"}},
	})
	require.Equal(t, fiber.StatusCreated, status)
	requestID, _ := body["id"].(string)
	require.NotEmpty(t, requestID)

	for _, target := range []string{entity.StatusSubmitted, entity.StatusFulfilled} {
		status, body = doJSON(t, app, "POST", "/api/stock-requests/"+requestID+"/transitions", fiber.Map{
			"target": target,
		})
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, target, body["status"])
	}
	require.NotEmpty(t, body["transaction_id"])

	dest, err := store.Repos().Stock.Get(itemID, destWH)
	require.NoError(t, err)
	require.True(t, dest.CurrentStock.Equal(decimal.NewFromInt(40)))
}
