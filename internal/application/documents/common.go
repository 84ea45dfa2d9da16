// Package documents implementa los documentos de negocio con ciclo de vida
// (solicitudes de traslado, órdenes de transformación, recepciones de compra).
// Cada documento consulta su máquina de estados antes de mutar estado, y solo
// las transiciones que afectan stock invocan al orquestador, siempre dentro
// de la misma transacción de BD que el cambio de estado.
package documents

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// toLineInputs convierte líneas de documento a líneas de evento de inventario.
func toLineInputs(items []entity.DocumentItem) []inventory.LineInput {
	lines := make([]inventory.LineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, inventory.LineInput{
			ItemID:      it.ItemID,
			PackagingID: it.PackagingID,
			InputQty:    it.InputQty,
			UnitCost:    it.UnitCost,
		})
	}
	return lines
}

// fromItemRequests valida y convierte líneas del request HTTP.
func fromItemRequests(documentID, direction string, items []dto.DocumentItemRequest) ([]entity.DocumentItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]entity.DocumentItem, 0, len(items))
	for _, it := range items {
		if it.ItemID == "" || !it.InputQty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		out = append(out, entity.DocumentItem{
			DocumentID:  documentID,
			ItemID:      it.ItemID,
			PackagingID: it.PackagingID,
			InputQty:    it.InputQty,
			UnitCost:    it.UnitCost,
			Direction:   direction,
		})
	}
	return out, nil
}
