package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// PackagingHandler maneja el catálogo de empaques por item.
type PackagingHandler struct {
	uc *inventory.PackagingUseCase
}

// NewPackagingHandler construye el handler.
func NewPackagingHandler(uc *inventory.PackagingUseCase) *PackagingHandler {
	return &PackagingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un empaque para un item
// @Tags         packagings
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "Item (UUID)"
// @Param        body  body  dto.CreatePackagingRequest   true  "pack_type, label, conversion_factor, is_base"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/packagings [post]
func (h *PackagingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackagingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Create(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": p.ID})
}

// List godoc
// @Summary      Listar empaques de un item
// @Tags         packagings
// @Produce      json
// @Param        id  path  string  true  "Item (UUID)"
// @Success      200  {array}   map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/packagings [get]
func (h *PackagingHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListByItem(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, p := range list {
		out = append(out, fiber.Map{
			"id":                p.ID,
			"pack_type":         p.PackType,
			"label":             p.Label,
			"conversion_factor": p.ConversionFactor,
			"is_base":           p.IsBase,
			"is_active":         p.IsActive,
			"usage_count":       p.UsageCount,
		})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar un empaque
// @Description  El factor de conversión solo se acepta mientras el empaque no tenga movimientos.
// @Tags         packagings
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "Empaque (UUID)"
// @Param        body  body  dto.UpdatePackagingRequest  true  "campos a cambiar"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packagings/{id} [put]
func (h *PackagingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePackagingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.Update(c.Context(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": p.ID, "message": "empaque actualizado"})
}
