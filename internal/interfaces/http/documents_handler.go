package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/documents"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// DocumentsHandler maneja los documentos con ciclo de vida: solicitudes de
// traslado, órdenes de transformación y recepciones de compra.
type DocumentsHandler struct {
	requests        *documents.StockRequestUseCase
	transformations *documents.TransformationUseCase
	receipts        *documents.ReceiptUseCase
}

// NewDocumentsHandler construye el handler.
func NewDocumentsHandler(
	requests *documents.StockRequestUseCase,
	transformations *documents.TransformationUseCase,
	receipts *documents.ReceiptUseCase,
) *DocumentsHandler {
	return &DocumentsHandler{
		requests:        requests,
		transformations: transformations,
		receipts:        receipts,
	}
}

// CreateStockRequest godoc
// @Summary      Crear solicitud de traslado (DRAFT)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockRequestRequest  true  "source_warehouse_id, dest_warehouse_id, items"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-requests [post]
func (h *DocumentsHandler) CreateStockRequest(c *fiber.Ctx) error {
	var in dto.CreateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.requests.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": req.ID, "status": req.Status})
}

// GetStockRequest godoc
// @Summary      Obtener solicitud de traslado
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "Solicitud (UUID)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id} [get]
func (h *DocumentsHandler) GetStockRequest(c *fiber.Ctx) error {
	req, err := h.requests.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                  req.ID,
		"source_warehouse_id": req.SourceWarehouseID,
		"dest_warehouse_id":   req.DestWarehouseID,
		"status":              req.Status,
		"status_changed_at":   req.StatusChangedAt,
		"transaction_id":      req.TransactionID,
		"items":               documentItems(req.Items),
	})
}

// TransitionStockRequest godoc
// @Summary      Transicionar solicitud de traslado
// @Description  FULFILLED registra el TRANSFER; el cambio de estado y los asientos confirman juntos.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Solicitud (UUID)"
// @Param        body  body  dto.TransitionRequest  true  "target"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-requests/{id}/transitions [post]
func (h *DocumentsHandler) TransitionStockRequest(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.requests.Transition(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": req.ID, "status": req.Status, "transaction_id": req.TransactionID})
}

// CreateTransformation godoc
// @Summary      Crear orden de transformación (DRAFT)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransformationRequest  true  "warehouse_id, inputs, outputs"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transformation-orders [post]
func (h *DocumentsHandler) CreateTransformation(c *fiber.Ctx) error {
	var in dto.CreateTransformationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.transformations.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": order.ID, "status": order.Status})
}

// GetTransformation godoc
// @Summary      Obtener orden de transformación
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "Orden (UUID)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transformation-orders/{id} [get]
func (h *DocumentsHandler) GetTransformation(c *fiber.Ctx) error {
	order, err := h.transformations.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                 order.ID,
		"warehouse_id":       order.WarehouseID,
		"status":             order.Status,
		"status_changed_at":  order.StatusChangedAt,
		"out_transaction_id": order.OutTransactionID,
		"in_transaction_id":  order.InTransactionID,
		"inputs":             documentItems(order.Inputs),
		"outputs":            documentItems(order.Outputs),
	})
}

// TransitionTransformation godoc
// @Summary      Transicionar orden de transformación
// @Description  COMPLETED postea OUT(insumos) + IN(productos) en una sola transacción de BD.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Orden (UUID)"
// @Param        body  body  dto.TransitionRequest  true  "target"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transformation-orders/{id}/transitions [post]
func (h *DocumentsHandler) TransitionTransformation(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.transformations.Transition(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                 order.ID,
		"status":             order.Status,
		"out_transaction_id": order.OutTransactionID,
		"in_transaction_id":  order.InTransactionID,
	})
}

// CreateReceipt godoc
// @Summary      Crear recepción de compra (DRAFT)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "warehouse_id, items"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-receipts [post]
func (h *DocumentsHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipt, err := h.receipts.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": receipt.ID, "status": receipt.Status})
}

// GetReceipt godoc
// @Summary      Obtener recepción de compra
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "Recepción (UUID)"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-receipts/{id} [get]
func (h *DocumentsHandler) GetReceipt(c *fiber.Ctx) error {
	receipt, err := h.receipts.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                      receipt.ID,
		"warehouse_id":            receipt.WarehouseID,
		"supplier_ref":            receipt.SupplierRef,
		"status":                  receipt.Status,
		"status_changed_at":       receipt.StatusChangedAt,
		"transaction_id":          receipt.TransactionID,
		"reversal_transaction_id": receipt.ReversalTransactionID,
		"items":                   documentItems(receipt.Items),
	})
}

// TransitionReceipt godoc
// @Summary      Transicionar recepción de compra
// @Description  POSTED registra el IN de compra; REVERSED postea el OUT contrario referenciando la transacción original.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Recepción (UUID)"
// @Param        body  body  dto.TransitionRequest  true  "target"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-receipts/{id}/transitions [post]
func (h *DocumentsHandler) TransitionReceipt(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	receipt, err := h.receipts.Transition(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":                      receipt.ID,
		"status":                  receipt.Status,
		"transaction_id":          receipt.TransactionID,
		"reversal_transaction_id": receipt.ReversalTransactionID,
	})
}

func documentItems(items []entity.DocumentItem) []fiber.Map {
	out := make([]fiber.Map, 0, len(items))
	for _, it := range items {
		out = append(out, fiber.Map{
			"item_id":      it.ItemID,
			"packaging_id": it.PackagingID,
			"input_qty":    it.InputQty,
			"unit_cost":    it.UnitCost,
			"direction":    it.Direction,
		})
	}
	return out
}
