package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/documents"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator    *inventory.Orchestrator
	Normalizer      *inventory.NormalizeUseCase
	Reports         *inventory.ReportUseCase
	Locations       *inventory.LocationUseCase
	Packagings      *inventory.PackagingUseCase
	StockRequests   *documents.StockRequestUseCase
	Transformations *documents.TransformationUseCase
	Receipts        *documents.ReceiptUseCase
}

// Router registra las rutas de la API. Todas las rutas requieren identidad de
// tenant (headers del gateway; la autenticación vive fuera de este servicio).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware())

	// Motor de inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Orchestrator, deps.Normalizer, deps.Reports, deps.Locations)
	inv.Post("/transactions", inventoryHandler.ExecuteTransaction)
	inv.Post("/normalize", inventoryHandler.Normalize)
	inv.Get("/kardex", inventoryHandler.Kardex)
	inv.Get("/on-hand", inventoryHandler.OnHand)
	inv.Post("/locations/adjust", inventoryHandler.AdjustLocation)

	api.Post("/warehouses/:id/default-location", inventoryHandler.EnsureDefaultLocation)

	// Catálogo de empaques
	packagingHandler := NewPackagingHandler(deps.Packagings)
	api.Post("/items/:id/packagings", packagingHandler.Create)
	api.Get("/items/:id/packagings", packagingHandler.List)
	api.Put("/packagings/:id", packagingHandler.Update)

	// Documentos con ciclo de vida
	documentsHandler := NewDocumentsHandler(deps.StockRequests, deps.Transformations, deps.Receipts)
	api.Post("/stock-requests", documentsHandler.CreateStockRequest)
	api.Get("/stock-requests/:id", documentsHandler.GetStockRequest)
	api.Post("/stock-requests/:id/transitions", documentsHandler.TransitionStockRequest)

	api.Post("/transformation-orders", documentsHandler.CreateTransformation)
	api.Get("/transformation-orders/:id", documentsHandler.GetTransformation)
	api.Post("/transformation-orders/:id/transitions", documentsHandler.TransitionTransformation)

	api.Post("/purchase-receipts", documentsHandler.CreateReceipt)
	api.Get("/purchase-receipts/:id", documentsHandler.GetReceipt)
	api.Post("/purchase-receipts/:id/transitions", documentsHandler.TransitionReceipt)
}
