package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario.
type InventoryHandler struct {
	orchestrator *inventory.Orchestrator
	normalizer   *inventory.NormalizeUseCase
	reports      *inventory.ReportUseCase
	locations    *inventory.LocationUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	orchestrator *inventory.Orchestrator,
	normalizer *inventory.NormalizeUseCase,
	reports *inventory.ReportUseCase,
	locations *inventory.LocationUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		orchestrator: orchestrator,
		normalizer:   normalizer,
		reports:      reports,
		locations:    locations,
	}
}

// ExecuteTransaction godoc
// @Summary      Ejecutar evento de inventario (IN, OUT o TRANSFER)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExecuteTransactionRequest  true  "type, warehouse_id (y dest_warehouse_id en TRANSFER), voucher_type, lines"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *InventoryHandler) ExecuteTransaction(c *fiber.Ctx) error {
	var in dto.ExecuteTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	lines := make([]inventory.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.LineInput{
			ItemID:      l.ItemID,
			PackagingID: l.PackagingID,
			InputQty:    l.InputQty,
			UnitCost:    l.UnitCost,
		})
	}
	txID, err := h.orchestrator.Execute(c.Context(), inventory.TransactionInput{
		CompanyID:       GetCompanyID(c),
		UserID:          GetUserID(c),
		WarehouseID:     in.WarehouseID,
		DestWarehouseID: in.DestWarehouseID,
		Type:            in.Type,
		AllowNegative:   in.AllowNegative,
		VoucherType:     in.VoucherType,
		VoucherNumber:   in.VoucherNumber,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceCode:   in.ReferenceCode,
		Notes:           in.Notes,
		Lines:           lines,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transaction_id": txID})
}

// Normalize godoc
// @Summary      Normalizar líneas a unidades base (sin efectos)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NormalizeRequest  true  "lines"
// @Success      200   {array}   dto.NormalizedLineDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/normalize [post]
func (h *InventoryHandler) Normalize(c *fiber.Ctx) error {
	var in dto.NormalizeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]inventory.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.LineInput{
			ItemID:      l.ItemID,
			PackagingID: l.PackagingID,
			InputQty:    l.InputQty,
			UnitCost:    l.UnitCost,
		})
	}
	normalized, err := h.normalizer.NormalizeLines(c.Context(), GetCompanyID(c), lines)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.NormalizedLineDTO, 0, len(normalized))
	for _, n := range normalized {
		out = append(out, dto.NormalizedLineDTO{
			ItemID:           n.ItemID,
			PackagingID:      n.PackagingID,
			InputQty:         n.InputQty,
			ConversionFactor: n.ConversionFactor,
			NormalizedQty:    n.NormalizedQty,
			UnitCost:         n.UnitCost,
		})
	}
	return c.JSON(out)
}

// Kardex godoc
// @Summary      Kardex de un item en una bodega
// @Tags         inventory
// @Produce      json
// @Param        item_id       query  string  true   "Item (UUID)"
// @Param        warehouse_id  query  string  true   "Bodega (UUID)"
// @Param        from          query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to            query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida (YYYY-MM-DD)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida (YYYY-MM-DD)"})
	}

	result, err := h.reports.Kardex(c.Context(), GetCompanyID(c),
		c.Query("item_id"), c.Query("warehouse_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	entries := make([]dto.KardexEntryDTO, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, dto.KardexEntryDTO{
			ID:                  e.ID,
			TransactionID:       e.TransactionID,
			PostingDate:         e.PostingDate.Format("2006-01-02"),
			PostingTime:         e.PostingTime.Format(time.RFC3339),
			ActualQty:           e.ActualQty,
			QtyAfterTransaction: e.QtyAfterTransaction,
			ValuationRate:       e.ValuationRate,
			StockValue:          e.StockValue,
			VoucherType:         e.VoucherType,
			VoucherNumber:       e.VoucherNumber,
			IsCancelled:         e.IsCancelled,
		})
	}
	return c.JSON(dto.KardexResponse{
		OpeningBalance: result.OpeningBalance,
		Entries:        entries,
		Page:           dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: result.Total},
	})
}

// OnHand godoc
// @Summary      Existencias actuales por bodega, con punto de reorden
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  string  true  "Bodega (UUID)"
// @Success      200  {array}   dto.OnHandRowDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/on-hand [get]
func (h *InventoryHandler) OnHand(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	rows, err := h.reports.OnHand(c.Context(), GetCompanyID(c), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OnHandRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.OnHandRowDTO{
			ItemID:       row.Item.ID,
			SKU:          row.Item.SKU,
			Name:         row.Item.Name,
			BaseUnit:     row.Item.BaseUnit,
			CurrentStock: row.CurrentStock,
			ReorderPoint: row.Item.ReorderPoint,
			BelowReorder: row.BelowReorder,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "rows": out})
}

// AdjustLocation godoc
// @Summary      Mover existencia entre ubicaciones de la misma bodega
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustLocationRequest  true  "item_id, warehouse_id, from_location_id, to_location_id, qty"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/locations/adjust [post]
func (h *InventoryHandler) AdjustLocation(c *fiber.Ctx) error {
	var in dto.AdjustLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.locations.AdjustItemLocation(c.Context(), GetCompanyID(c),
		in.ItemID, in.WarehouseID, in.FromLocationID, in.ToLocationID, in.Qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "existencia reubicada"})
}

// EnsureDefaultLocation godoc
// @Summary      Provisionar la ubicación por defecto de una bodega
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "Bodega (UUID)"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/default-location [post]
func (h *InventoryHandler) EnsureDefaultLocation(c *fiber.Ctx) error {
	locationID, err := h.locations.EnsureWarehouseDefaultLocation(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"location_id": locationID})
}

// parseDateQuery convierte YYYY-MM-DD a *time.Time; nil si viene vacío.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
